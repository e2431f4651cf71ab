// Package memory provides in-memory store implementations for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"solana-launch-pilot/internal/storage"
)

// ProcessedMentionStore is an in-memory implementation of
// storage.ProcessedMentionStore.
type ProcessedMentionStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewProcessedMentionStore creates a new in-memory dedup store.
func NewProcessedMentionStore() *ProcessedMentionStore {
	return &ProcessedMentionStore{
		seen: make(map[string]struct{}),
	}
}

var _ storage.ProcessedMentionStore = (*ProcessedMentionStore)(nil)

// Mark records a mention id. Returns ErrDuplicateKey if already marked.
func (s *ProcessedMentionStore) Mark(_ context.Context, mentionID string) error {
	if mentionID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[mentionID]; exists {
		return storage.ErrDuplicateKey
	}
	s.seen[mentionID] = struct{}{}
	return nil
}

// Seen reports whether a mention id has been marked.
func (s *ProcessedMentionStore) Seen(_ context.Context, mentionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.seen[mentionID]
	return exists, nil
}

// Count returns the number of marked ids.
func (s *ProcessedMentionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.seen), nil
}
