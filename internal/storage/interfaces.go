package storage

import (
	"context"
	"time"

	"solana-launch-pilot/internal/domain"
)

// ProcessedMentionStore is the monitor's dedup collaborator. A mention
// id is marked at most once; the set survives restarts only in durable
// implementations.
type ProcessedMentionStore interface {
	// Mark records a mention id as processed. Returns ErrDuplicateKey
	// when the id was already marked.
	Mark(ctx context.Context, mentionID string) error

	// Seen reports whether a mention id has been marked.
	Seen(ctx context.Context, mentionID string) (bool, error)

	// Count returns the number of marked ids.
	Count(ctx context.Context) (int, error)
}

// LaunchRecordStore persists completed launches.
type LaunchRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if the
	// signature already exists.
	Insert(ctx context.Context, r *domain.LaunchRecord) error

	// GetBySignature retrieves a record. Returns ErrNotFound if not exists.
	GetBySignature(ctx context.Context, signature string) (*domain.LaunchRecord, error)

	// GetByMint retrieves the record for a mint. Returns ErrNotFound if
	// not exists.
	GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error)

	// List returns records launched within [start, end], ordered by
	// launch time ascending.
	List(ctx context.Context, start, end time.Time) ([]*domain.LaunchRecord, error)
}

// PipelineEvent is one stage outcome in a launch or trade operation,
// appended for analytics.
type PipelineEvent struct {
	MentionID  string    // empty for manual operations
	Operation  string    // create | buy | sell
	Stage      string    // validate | upload | build | sign | broadcast
	Status     string    // ok | error
	Mint       string
	Detail     string // error text for failed stages
	DurationMS int64
	OccurredAt time.Time
}

// PipelineEventStore is an append-only analytics log of pipeline stage
// outcomes.
type PipelineEventStore interface {
	// InsertBulk appends a batch of events.
	InsertBulk(ctx context.Context, events []*PipelineEvent) error

	// CountByStatus returns event counts per status for an operation
	// within [start, end].
	CountByStatus(ctx context.Context, operation string, start, end time.Time) (map[string]int64, error)
}
