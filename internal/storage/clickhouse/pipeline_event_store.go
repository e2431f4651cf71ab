package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-launch-pilot/internal/storage"
)

// PipelineEventStore implements storage.PipelineEventStore using
// ClickHouse. Events are append-only; the MergeTree table does not
// enforce uniqueness and the pipeline never rewrites history.
type PipelineEventStore struct {
	conn *Conn
}

// NewPipelineEventStore creates a new PipelineEventStore.
func NewPipelineEventStore(conn *Conn) *PipelineEventStore {
	return &PipelineEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PipelineEventStore = (*PipelineEventStore)(nil)

// InsertBulk appends a batch of events.
func (s *PipelineEventStore) InsertBulk(ctx context.Context, events []*storage.PipelineEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO pipeline_events (
			mention_id, operation, stage, status, mint, detail, duration_ms, occurred_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		if e == nil {
			return storage.ErrInvalidInput
		}
		err = batch.Append(
			e.MentionID, e.Operation, e.Stage, e.Status,
			e.Mint, e.Detail, uint64(e.DurationMS), e.OccurredAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountByStatus returns event counts per status for an operation within
// [start, end].
func (s *PipelineEventStore) CountByStatus(ctx context.Context, operation string, start, end time.Time) (map[string]int64, error) {
	query := `
		SELECT status, count(*) AS cnt
		FROM pipeline_events
		WHERE operation = ? AND occurred_at >= ? AND occurred_at <= ?
		GROUP BY status
	`

	rows, err := s.conn.Query(ctx, query, operation, start, end)
	if err != nil {
		return nil, fmt.Errorf("count events by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			cnt    uint64
		)
		if err := rows.Scan(&status, &cnt); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = int64(cnt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}
