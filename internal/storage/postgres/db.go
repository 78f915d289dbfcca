// Package postgres implements the storage interfaces on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-jobboard/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store hands out repositories bound to the pool, or to a transaction inside RunInTx.
type Store struct {
	pool *pgxpool.Pool
	db   Querier
	inTx bool
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a new Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Users() storage.UserRepository             { return &UserRepo{db: s.db} }
func (s *Store) Jobs() storage.JobRepository               { return &JobRepo{db: s.db, lock: s.inTx} }
func (s *Store) Reports() storage.ReportRepository         { return &ReportRepo{db: s.db} }
func (s *Store) Submissions() storage.SubmissionRepository { return &SubmissionRepo{db: s.db} }
func (s *Store) Likes() storage.LikeRepository             { return &LikeRepo{db: s.db} }

// RunInTx runs fn in a transaction that commits when fn returns nil. Nested calls join the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op once Commit succeeded
	defer tx.Rollback(ctx)

	if err := fn(ctx, &Store{pool: s.pool, db: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
