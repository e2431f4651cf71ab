package mentions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"solana-launch-pilot/internal/domain"
)

// Source yields new mention records from an external stream. Fetch
// returns whatever has accumulated since the previous call; the monitor
// handles deduplication.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Mention, error)
}

// DefaultHTTPTimeout bounds each poll request.
const DefaultHTTPTimeout = 15 * time.Second

// HTTPSource polls a REST endpoint returning a JSON array of mentions.
// It tracks the last seen mention id and passes it as a cursor.
type HTTPSource struct {
	endpoint string
	client   *http.Client

	mu      sync.Mutex
	sinceID string
}

// NewHTTPSource creates a polling source for the given endpoint.
func NewHTTPSource(endpoint string) *HTTPSource {
	return &HTTPSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

var _ Source = (*HTTPSource)(nil)

// Fetch requests mentions newer than the stored cursor.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Mention, error) {
	s.mu.Lock()
	sinceID := s.sinceID
	s.mu.Unlock()

	url := s.endpoint
	if sinceID != "" {
		url = fmt.Sprintf("%s?since_id=%s", s.endpoint, sinceID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll mentions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var fetched []domain.Mention
	if err := json.Unmarshal(body, &fetched); err != nil {
		return nil, fmt.Errorf("unmarshal mentions: %w", err)
	}

	if len(fetched) > 0 {
		s.mu.Lock()
		s.sinceID = fetched[len(fetched)-1].ID
		s.mu.Unlock()
	}

	return fetched, nil
}

// StubSource is an in-memory source for tests and dry runs. Mentions
// pushed with Add are returned by the next Fetch and then drained.
type StubSource struct {
	mu      sync.Mutex
	pending []domain.Mention
	err     error
}

// NewStubSource creates an empty stub source.
func NewStubSource() *StubSource {
	return &StubSource{}
}

var _ Source = (*StubSource)(nil)

// Add queues mentions for the next Fetch.
func (s *StubSource) Add(mentions ...domain.Mention) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, mentions...)
}

// SetError makes the next Fetch fail with err.
func (s *StubSource) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Fetch drains and returns all queued mentions.
func (s *StubSource) Fetch(context.Context) ([]domain.Mention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}

	out := s.pending
	s.pending = nil
	return out, nil
}
