package reportrepo

import (
	"context"
	"time"

	"github.com/spoorthi4230-pixel/book-worm-desk/util/database"
)

type Summary struct {
	Books      int64 `json:"books"`
	Available  int64 `json:"available"`
	Members    int64 `json:"members"`
	OpenIssues int64 `json:"open_issues"`
	Overdue    int64 `json:"overdue"`
}

// Inconsistency is a book whose availability flag disagrees with the ledger.
type Inconsistency struct {
	BookID    int64  `json:"book_id"`
	BookCode  string `json:"book_code"`
	Available bool   `json:"available"`
	OpenTxns  int64  `json:"open_txns"`
}

type Repo interface {
	Summarize(ctx context.Context, now time.Time) (*Summary, error)
	Inconsistencies(ctx context.Context) ([]Inconsistency, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Summarize(ctx context.Context, now time.Time) (*Summary, error) {
	const q = `
SELECT
	(SELECT COUNT(*) FROM books),
	(SELECT COUNT(*) FROM books WHERE available),
	(SELECT COUNT(*) FROM user_profiles),
	(SELECT COUNT(*) FROM transactions WHERE kind='issue' AND returned_at IS NULL),
	(SELECT COUNT(*) FROM transactions WHERE kind='issue' AND returned_at IS NULL AND due_at < $1)`
	s := &Summary{}
	err := r.db.Pool.QueryRow(ctx, q, now).
		Scan(&s.Books, &s.Available, &s.Members, &s.OpenIssues, &s.Overdue)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Inconsistencies surfaces invariant violations: available books with an
// open issue entry, issued books with none, and books with more than one
// open entry. Read-only; repair is a deliberate admin action.
func (r *repo) Inconsistencies(ctx context.Context) ([]Inconsistency, error) {
	const q = `
SELECT b.id, b.code, b.available, COUNT(t.id) AS open_txns
FROM books b
LEFT JOIN transactions t
	ON t.book_id = b.id AND t.kind = 'issue' AND t.returned_at IS NULL
GROUP BY b.id
HAVING b.available = (COUNT(t.id) > 0) OR COUNT(t.id) > 1
ORDER BY b.code`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Inconsistency
	for rows.Next() {
		var v Inconsistency
		if err := rows.Scan(&v.BookID, &v.BookCode, &v.Available, &v.OpenTxns); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
