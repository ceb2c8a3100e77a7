package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/pmorel/tasklane/internal/account/domain"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

type Repository interface {
	Create(ctx context.Context, account domain.Account) error
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Account, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, account domain.Account) error {
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		string(account.ID),
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`,
		email,
	)

	return scanAccount(row)
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Account, error) {
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE id = $1`,
		string(id),
	)

	return scanAccount(row)
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}

	return account, nil
}
