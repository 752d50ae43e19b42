package auth

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/database"
)

type Repo interface {
	// Create inserts the login account inside the caller's transaction so
	// registration can write account + profile atomically.
	Create(ctx context.Context, tx pgx.Tx, a *model.Account) error
	ByEmail(ctx context.Context, email string) (*model.Account, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, tx pgx.Tx, a *model.Account) error {
	return tx.QueryRow(ctx, `
		INSERT INTO accounts(email, password_hash, role)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`,
		a.Email, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.Account, error) {
	a := &model.Account{}
	err := r.db.Pool.QueryRow(ctx, `
        SELECT id, email, password_hash, role, created_at
        FROM accounts
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
