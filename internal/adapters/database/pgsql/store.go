package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is the part of pgxpool.Pool and pgx.Tx the queries need.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// queries runs every repository statement against either the pool or an open transaction.
type queries struct {
	db dbtx
}

// Store is the Postgres implementation of repositories.Store.
type Store struct {
	*queries
	pool *pgxpool.Pool
}

var (
	_ repositories.Store = (*Store)(nil)
	_ repositories.Tx    = (*queries)(nil)
)

// NewStore creates a store over an established pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{queries: &queries{db: pool}, pool: pool}
}

// WithinTx implements repositories.TransactionManager with a read committed pgx.Tx.
// Row locks taken by the *ForUpdate reads are held until fn returns.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx)

	if err := fn(ctx, &queries{db: tx}); err != nil {
		return err
	}
	return s.Commit(ctx, tx)
}

// Begin starts a new database transaction.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits the transaction.
func (s *Store) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (s *Store) Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		middleware.GetLoggerFromCtx(ctx).Error("failed to rollback transaction", slog.String("error", err.Error()))
	}
}

// SeedHousehold inserts a household and its members unless they already exist. The
// roster is owned by the membership collaborator; this exists for local setups.
func (s *Store) SeedHousehold(ctx context.Context, h domain.Household, members ...domain.Member) error {
	return s.WithinTx(ctx, func(ctx context.Context, txRepo repositories.Tx) error {
		q := txRepo.(*queries)
		_, err := q.db.Exec(ctx, `
			INSERT INTO households (household_id, name, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (household_id) DO NOTHING`,
			h.HouseholdID, h.Name, h.CreatedAt, h.CreatedBy, h.LastUpdatedAt, h.LastUpdatedBy)
		if err != nil {
			return storeErr("seed household", err)
		}
		for _, m := range members {
			_, err := q.db.Exec(ctx, `
				INSERT INTO household_members (household_id, user_id, role, joined_at)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (household_id, user_id) DO NOTHING`,
				h.HouseholdID, m.UserID, m.Role, m.JoinedAt)
			if err != nil {
				return storeErr("seed member", err)
			}
		}
		return nil
	})
}

// forUpdate appends the row lock clause to a select.
func forUpdate(query string, lock bool) string {
	if lock {
		return query + " FOR UPDATE"
	}
	return query
}

// storeErr translates driver errors into the apperrors kinds the services understand.
func storeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w: %s", op, apperrors.ErrDuplicate, pgErr.ConstraintName)
		case "23503", "23514":
			return fmt.Errorf("%s: %w: %s", op, apperrors.ErrValidation, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// expectOne reports ErrNotFound when an update or delete touched no row.
func expectOne(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return storeErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
