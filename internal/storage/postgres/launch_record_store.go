package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-launch-pilot/internal/domain"
	"solana-launch-pilot/internal/storage"
)

// LaunchRecordStore implements storage.LaunchRecordStore using PostgreSQL.
type LaunchRecordStore struct {
	pool *Pool
}

// NewLaunchRecordStore creates a new LaunchRecordStore.
func NewLaunchRecordStore(pool *Pool) *LaunchRecordStore {
	return &LaunchRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LaunchRecordStore = (*LaunchRecordStore)(nil)

// Insert adds a new launch record. Returns ErrDuplicateKey if the
// signature already exists.
func (s *LaunchRecordStore) Insert(ctx context.Context, r *domain.LaunchRecord) error {
	if r == nil || r.Signature == "" || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO launches (
			signature, mint, bonding_curve, associated_bonding_curve,
			name, symbol, metadata_uri, source_mention_id, launched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Signature,
		r.Mint,
		r.BondingCurve,
		r.AssociatedBondingCurve,
		r.Name,
		r.Symbol,
		r.MetadataURI,
		r.SourceMentionID,
		r.LaunchedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert launch record: %w", err)
	}
	return nil
}

// GetBySignature retrieves a record by transaction signature.
// Returns ErrNotFound if not exists.
func (s *LaunchRecordStore) GetBySignature(ctx context.Context, signature string) (*domain.LaunchRecord, error) {
	query := `
		SELECT signature, mint, bonding_curve, associated_bonding_curve,
		       name, symbol, metadata_uri, source_mention_id, launched_at, created_at
		FROM launches
		WHERE signature = $1
	`

	row := s.pool.QueryRow(ctx, query, signature)
	r, err := scanLaunchRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get launch by signature: %w", err)
	}
	return r, nil
}

// GetByMint retrieves the record for a mint address.
// Returns ErrNotFound if not exists.
func (s *LaunchRecordStore) GetByMint(ctx context.Context, mint string) (*domain.LaunchRecord, error) {
	query := `
		SELECT signature, mint, bonding_curve, associated_bonding_curve,
		       name, symbol, metadata_uri, source_mention_id, launched_at, created_at
		FROM launches
		WHERE mint = $1
		ORDER BY launched_at DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, mint)
	r, err := scanLaunchRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get launch by mint: %w", err)
	}
	return r, nil
}

// List returns records launched within [start, end], ordered by launch
// time ascending.
func (s *LaunchRecordStore) List(ctx context.Context, start, end time.Time) ([]*domain.LaunchRecord, error) {
	query := `
		SELECT signature, mint, bonding_curve, associated_bonding_curve,
		       name, symbol, metadata_uri, source_mention_id, launched_at, created_at
		FROM launches
		WHERE launched_at >= $1 AND launched_at <= $2
		ORDER BY launched_at ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("list launches: %w", err)
	}
	defer rows.Close()

	var records []*domain.LaunchRecord
	for rows.Next() {
		r, err := scanLaunchRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return records, nil
}

// scanLaunchRecord scans a single row into LaunchRecord.
func scanLaunchRecord(row pgx.Row) (*domain.LaunchRecord, error) {
	var r domain.LaunchRecord

	err := row.Scan(
		&r.Signature,
		&r.Mint,
		&r.BondingCurve,
		&r.AssociatedBondingCurve,
		&r.Name,
		&r.Symbol,
		&r.MetadataURI,
		&r.SourceMentionID,
		&r.LaunchedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}
