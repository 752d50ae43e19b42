// model/transaction.go
package model

import "time"

type TxnKind string

const (
	KindIssue  TxnKind = "issue"
	KindReturn TxnKind = "return"
)

// Transaction is one entry in the append-only circulation ledger. Rows are
// never deleted; the only in-place mutation ever made is stamping ReturnedAt
// on an issue row when the book comes back.
type Transaction struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	UserID     int64      `json:"user_id"`
	Kind       TxnKind    `json:"kind"`
	IssuedAt   time.Time  `json:"issued_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Open reports whether this entry still holds the book out.
func (t *Transaction) Open() bool {
	return t.Kind == KindIssue && t.ReturnedAt == nil
}
