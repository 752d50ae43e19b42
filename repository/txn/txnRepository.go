// repository/txn/repo.go
package txnrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/database"
)

// HistoryRow joins a ledger entry with book and member display fields.
type HistoryRow struct {
	TxnID      int64         `json:"txn_id"`
	BookID     int64         `json:"book_id"`
	BookCode   string        `json:"book_code"`
	BookTitle  string        `json:"book_title"`
	UserID     int64         `json:"user_id"`
	USN        string        `json:"usn"`
	UserName   string        `json:"user_name"`
	Kind       model.TxnKind `json:"kind"`
	IssuedAt   time.Time     `json:"issued_at"`
	DueAt      time.Time     `json:"due_at"`
	ReturnedAt *time.Time    `json:"returned_at,omitempty"`
}

type Repo interface {
	InsertIssue(ctx context.Context, tx pgx.Tx, t *model.Transaction) error

	// OpenIssueForBook locks and returns the open issue entry for a book.
	// If, abnormally, more than one is open, the most recent wins
	// (issued_at, then id). pgx.ErrNoRows when there is none.
	OpenIssueForBook(ctx context.Context, tx pgx.Tx, bookID int64) (*model.Transaction, error)
	HasOpenIssue(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error)
	StampReturn(ctx context.Context, tx pgx.Tx, txnID int64, at time.Time) error

	HistoryForBook(ctx context.Context, bookID int64) ([]HistoryRow, error)
	HistoryForUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	ListOpen(ctx context.Context) ([]HistoryRow, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db: db} }

func (r *repo) InsertIssue(ctx context.Context, tx pgx.Tx, t *model.Transaction) error {
	const q = `
INSERT INTO transactions (book_id, user_id, kind, issued_at, due_at)
VALUES ($1,$2,'issue',$3,$4)
RETURNING id, created_at`
	t.Kind = model.KindIssue
	return tx.QueryRow(ctx, q, t.BookID, t.UserID, t.IssuedAt, t.DueAt).
		Scan(&t.ID, &t.CreatedAt)
}

func (r *repo) OpenIssueForBook(ctx context.Context, tx pgx.Tx, bookID int64) (*model.Transaction, error) {
	const q = `
SELECT id, book_id, user_id, kind, issued_at, due_at, returned_at, created_at
FROM transactions
WHERE book_id = $1
AND kind = 'issue'
AND returned_at IS NULL
ORDER BY issued_at DESC, id DESC
LIMIT 1
FOR UPDATE`
	t := &model.Transaction{}
	err := tx.QueryRow(ctx, q, bookID).
		Scan(&t.ID, &t.BookID, &t.UserID, &t.Kind, &t.IssuedAt, &t.DueAt, &t.ReturnedAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repo) HasOpenIssue(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error) {
	const q = `
SELECT EXISTS (
	SELECT 1 FROM transactions
	WHERE book_id = $1 AND kind = 'issue' AND returned_at IS NULL
)`
	var exists bool
	if err := tx.QueryRow(ctx, q, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repo) StampReturn(ctx context.Context, tx pgx.Tx, txnID int64, at time.Time) error {
	const q = `
UPDATE transactions
SET returned_at = $2
WHERE id = $1
AND returned_at IS NULL`
	_, err := tx.Exec(ctx, q, txnID, at)
	return err
}

const historySelect = `
SELECT
	t.id          AS txn_id,
	t.book_id     AS book_id,
	b.code        AS book_code,
	b.title       AS book_title,
	t.user_id     AS user_id,
	u.usn         AS usn,
	u.name        AS user_name,
	t.kind        AS kind,
	t.issued_at   AS issued_at,
	t.due_at      AS due_at,
	t.returned_at AS returned_at
FROM transactions t
JOIN books b ON b.id = t.book_id
JOIN user_profiles u ON u.id = t.user_id`

func (r *repo) HistoryForBook(ctx context.Context, bookID int64) ([]HistoryRow, error) {
	q := historySelect + `
WHERE t.book_id = $1
ORDER BY t.issued_at DESC, t.id DESC`
	return r.queryHistory(ctx, q, bookID)
}

func (r *repo) HistoryForUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	q := historySelect + `
WHERE t.user_id = $1
ORDER BY t.issued_at DESC, t.id DESC`
	return r.queryHistory(ctx, q, userID)
}

func (r *repo) ListOpen(ctx context.Context) ([]HistoryRow, error) {
	q := historySelect + `
WHERE t.kind = 'issue' AND t.returned_at IS NULL
ORDER BY t.due_at`
	return r.queryHistory(ctx, q)
}

func (r *repo) queryHistory(ctx context.Context, q string, args ...any) ([]HistoryRow, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(
			&h.TxnID, &h.BookID, &h.BookCode, &h.BookTitle,
			&h.UserID, &h.USN, &h.UserName,
			&h.Kind, &h.IssuedAt, &h.DueAt, &h.ReturnedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
