package bookrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/database"
)

type ListFilter struct {
	Category      string
	Search        string
	AvailableOnly bool
}

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	NextCode(ctx context.Context) (string, error)
	ByCode(ctx context.Context, code string) (*model.Book, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, f ListFilter) ([]model.Book, error)
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	// Availability flips. Both are conditional writes: the WHERE clause is
	// the state-machine guard, zero rows affected means the guard failed.
	MarkIssued(ctx context.Context, tx pgx.Tx, id int64) (int64, error)
	MarkAvailable(ctx context.Context, tx pgx.Tx, id int64) (int64, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (code, title, author, category)
VALUES ($1,$2,$3,$4)
RETURNING id, available, created_at`
	return r.db.Pool.QueryRow(ctx, q, b.Code, b.Title, b.Author, b.Category).
		Scan(&b.ID, &b.Available, &b.CreatedAt)
}

// NextCode derives the next LIB code from the highest one on record.
func (r *repo) NextCode(ctx context.Context) (string, error) {
	const q = `
SELECT COALESCE(MAX(NULLIF(regexp_replace(code, '\D', '', 'g'), '')::BIGINT), 0)
FROM books`
	var max int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&max); err != nil {
		return "", err
	}
	return fmt.Sprintf("LIB%03d", max+1), nil
}

func (r *repo) ByCode(ctx context.Context, code string) (*model.Book, error) {
	const q = `
SELECT id, code, title, author, category, available, created_at
FROM books
WHERE lower(code) = lower($1)`
	b := &model.Book{}
	err := r.db.Pool.QueryRow(ctx, q, code).
		Scan(&b.ID, &b.Code, &b.Title, &b.Author, &b.Category, &b.Available, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
SELECT id, code, title, author, category, available, created_at
FROM books
WHERE id = $1`
	b := &model.Book{}
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&b.ID, &b.Code, &b.Title, &b.Author, &b.Category, &b.Available, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Book, error) {
	q := `
SELECT id, code, title, author, category, available, created_at
FROM books
WHERE 1=1`
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		q += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		q += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d OR code ILIKE $%d)", n, n, n)
	}
	if f.AvailableOnly {
		q += " AND available"
	}
	q += " ORDER BY code"

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Code, &b.Title, &b.Author, &b.Category, &b.Available, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

func (r *repo) MarkIssued(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
	const q = `
UPDATE books
SET available = FALSE
WHERE id = $1
AND available`
	ct, err := tx.Exec(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *repo) MarkAvailable(ctx context.Context, tx pgx.Tx, id int64) (int64, error) {
	const q = `
UPDATE books
SET available = TRUE
WHERE id = $1
AND NOT available`
	ct, err := tx.Exec(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
