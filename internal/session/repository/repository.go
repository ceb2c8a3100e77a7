package repository

import (
	"context"
	"errors"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/pmorel/tasklane/internal/session/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type Repository interface {
	Create(ctx context.Context, session domain.Session) error
	// Consume atomically deletes and returns the session for a token hash, so
	// a refresh token can be redeemed at most once.
	Consume(ctx context.Context, tokenHash string) (domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	CountByAccountID(ctx context.Context, accountID string) (int, error)
	DeleteOldestByAccountID(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, session domain.Session) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO sessions (id, token_hash, account_id, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		session.ID,
		session.TokenHash,
		session.AccountID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

func (r *PgRepository) Consume(ctx context.Context, tokenHash string) (domain.Session, error) {
	row := r.pool.QueryRow(
		ctx,
		`DELETE FROM sessions WHERE token_hash = $1
		 RETURNING id, token_hash, account_id, expires_at, created_at`,
		tokenHash,
	)

	var session domain.Session
	err := row.Scan(&session.ID, &session.TokenHash, &session.AccountID, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, err
	}

	return session, nil
}

func (r *PgRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PgRepository) CountByAccountID(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.pool.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM sessions WHERE account_id = $1`,
		accountID,
	).Scan(&count)
	return count, err
}

func (r *PgRepository) DeleteOldestByAccountID(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(
		ctx,
		`DELETE FROM sessions WHERE id = (
			SELECT id FROM sessions WHERE account_id = $1 ORDER BY created_at ASC LIMIT 1
		)`,
		accountID,
	)
	return err
}

func (r *PgRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
