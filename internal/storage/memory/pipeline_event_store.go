package memory

import (
	"context"
	"sync"
	"time"

	"solana-launch-pilot/internal/storage"
)

// PipelineEventStore is an in-memory implementation of
// storage.PipelineEventStore.
type PipelineEventStore struct {
	mu     sync.RWMutex
	events []*storage.PipelineEvent
}

// NewPipelineEventStore creates a new in-memory pipeline event store.
func NewPipelineEventStore() *PipelineEventStore {
	return &PipelineEventStore{}
}

var _ storage.PipelineEventStore = (*PipelineEventStore)(nil)

// InsertBulk appends a batch of events.
func (s *PipelineEventStore) InsertBulk(_ context.Context, events []*storage.PipelineEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e == nil {
			return storage.ErrInvalidInput
		}
		c := *e
		s.events = append(s.events, &c)
	}
	return nil
}

// CountByStatus returns event counts per status for an operation within
// [start, end].
func (s *PipelineEventStore) CountByStatus(_ context.Context, operation string, start, end time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range s.events {
		if e.Operation != operation {
			continue
		}
		if e.OccurredAt.Before(start) || e.OccurredAt.After(end) {
			continue
		}
		counts[e.Status]++
	}
	return counts, nil
}
