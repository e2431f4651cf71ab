package postgres

import (
	"context"
	"fmt"

	"solana-launch-pilot/internal/storage"
)

// ProcessedMentionStore implements storage.ProcessedMentionStore using
// PostgreSQL. The mention id is the primary key, so Mark is atomic
// across processes.
type ProcessedMentionStore struct {
	pool *Pool
}

// NewProcessedMentionStore creates a new ProcessedMentionStore.
func NewProcessedMentionStore(pool *Pool) *ProcessedMentionStore {
	return &ProcessedMentionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ProcessedMentionStore = (*ProcessedMentionStore)(nil)

// Mark records a mention id as processed. Returns ErrDuplicateKey when
// the id was already marked.
func (s *ProcessedMentionStore) Mark(ctx context.Context, mentionID string) error {
	if mentionID == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO processed_mentions (mention_id) VALUES ($1)`

	_, err := s.pool.Exec(ctx, query, mentionID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("mark mention processed: %w", err)
	}
	return nil
}

// Seen reports whether a mention id has been marked.
func (s *ProcessedMentionStore) Seen(ctx context.Context, mentionID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM processed_mentions WHERE mention_id = $1)`

	var seen bool
	if err := s.pool.QueryRow(ctx, query, mentionID).Scan(&seen); err != nil {
		return false, fmt.Errorf("check mention processed: %w", err)
	}
	return seen, nil
}

// Count returns the number of marked ids.
func (s *ProcessedMentionStore) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM processed_mentions`

	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count processed mentions: %w", err)
	}
	return count, nil
}
