package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/storage"
)

// LaunchRecordStore is an in-memory implementation of
// storage.LaunchRecordStore.
type LaunchRecordStore struct {
	mu         sync.RWMutex
	bySig      map[string]*domain.LaunchRecord
	sigForMint map[string]string
}

// NewLaunchRecordStore creates a new in-memory launch record store.
func NewLaunchRecordStore() *LaunchRecordStore {
	return &LaunchRecordStore{
		bySig:      make(map[string]*domain.LaunchRecord),
		sigForMint: make(map[string]string),
	}
}

var _ storage.LaunchRecordStore = (*LaunchRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if the signature
// already exists.
func (s *LaunchRecordStore) Insert(_ context.Context, r *domain.LaunchRecord) error {
	if r == nil || r.Signature == "" || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySig[r.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	stored := copyRecord(r)
	s.bySig[r.Signature] = stored
	s.sigForMint[r.Mint] = r.Signature
	return nil
}

// GetBySignature retrieves a record by transaction signature.
func (s *LaunchRecordStore) GetBySignature(_ context.Context, signature string) (*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.bySig[signature]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRecord(r), nil
}

// GetByMint retrieves the record for a mint address.
func (s *LaunchRecordStore) GetByMint(_ context.Context, mint string) (*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, exists := s.sigForMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyRecord(s.bySig[sig]), nil
}

// List returns records launched within [start, end], ordered by launch
// time ascending.
func (s *LaunchRecordStore) List(_ context.Context, start, end time.Time) ([]*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.LaunchRecord
	for _, r := range s.bySig {
		if r.LaunchedAt.Before(start) || r.LaunchedAt.After(end) {
			continue
		}
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LaunchedAt.Before(out[j].LaunchedAt)
	})
	return out, nil
}

func copyRecord(r *domain.LaunchRecord) *domain.LaunchRecord {
	c := *r
	if r.SourceMentionID != nil {
		id := *r.SourceMentionID
		c.SourceMentionID = &id
	}
	return &c
}
