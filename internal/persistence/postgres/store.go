// Package postgres provides the PostgreSQL account store. Checkpoints replace
// the whole account set inside one transaction, mirroring the rewrite
// semantics of the CSV backend.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/banking-account-core/internal/domain/account"
	"github.com/banking-account-core/internal/platform/persistence"
)

// Store implements the account.Store interface for PostgreSQL
type Store struct {
	db      *persistence.PostgresDB
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewStore creates a new PostgreSQL account store backed by the pool.
func NewStore(logger *slog.Logger, db *persistence.PostgresDB) *Store {
	return &Store{
		db:      db,
		querier: db.Pool(),
		logger:  logger,
	}
}

// NewStoreWithQuerier creates a store over an explicit querier. Used by tests
// to substitute a mock connection.
func NewStoreWithQuerier(logger *slog.Logger, q persistence.Querier) *Store {
	return &Store{querier: q, logger: logger}
}

// Load retrieves every persisted account snapshot in insertion order.
func (s *Store) Load(ctx context.Context) ([]account.Snapshot, error) {
	query := `
		SELECT account_number, holder_name, balance, account_type, is_active, opening_date, closing_date
		FROM accounts
		ORDER BY id
	`

	rows, err := s.querier.Query(ctx, query)
	if err != nil {
		s.logger.Error("Failed to load accounts", "error", err)
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()

	var snapshots []account.Snapshot
	for rows.Next() {
		var (
			snap    account.Snapshot
			typ     string
			closing *time.Time
		)
		if err := rows.Scan(&snap.Number, &snap.HolderName, &snap.Balance, &typ, &snap.Active, &snap.OpeningDate, &closing); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		parsed, err := account.ParseType(typ)
		if err != nil {
			s.logger.Warn("Dropping account row with unknown type", "account_number", snap.Number, "type", typ)
			continue
		}
		snap.Type = parsed
		snap.ClosingDate = closing
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}

	return snapshots, nil
}

// Save replaces the persisted account set with the given snapshots. Delete
// and re-insert run in one transaction so a failed checkpoint leaves the
// previous state intact.
func (s *Store) Save(ctx context.Context, snapshots []account.Snapshot) error {
	if s.db == nil {
		return s.saveWith(ctx, s.querier, snapshots)
	}
	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.saveWith(ctx, tx, snapshots)
	})
}

func (s *Store) saveWith(ctx context.Context, q persistence.Querier, snapshots []account.Snapshot) error {
	if _, err := q.Exec(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	query := `
		INSERT INTO accounts (account_number, holder_name, balance, account_type, is_active, opening_date, closing_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, snap := range snapshots {
		_, err := q.Exec(ctx, query,
			snap.Number,
			snap.HolderName,
			snap.Balance,
			string(snap.Type),
			snap.Active,
			snap.OpeningDate,
			snap.ClosingDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", snap.Number, err)
		}
	}
	return nil
}
