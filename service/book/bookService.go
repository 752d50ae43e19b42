package booksvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	bookrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/book"
)

type ErrCode string

const (
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrOpenIssue: the book is still out; deletion would orphan the open
	// ledger entry.
	ErrOpenIssue ErrCode = "OPEN_ISSUE"
	// ErrHasHistory: closed ledger entries reference the book. The ledger
	// is append-only, so the book stays.
	ErrHasHistory ErrCode = "HAS_HISTORY"
)

type codedError struct {
	code  ErrCode
	cause error
}

func (e codedError) Error() string {
	if e.cause != nil {
		return string(e.code) + ": " + e.cause.Error()
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }
func (e codedError) Unwrap() error { return e.cause }

func makeErr(c ErrCode) error              { return codedError{code: c} }
func wrapErr(c ErrCode, cause error) error { return codedError{code: c, cause: cause} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	NextCode(ctx context.Context) (string, error)
	ByCode(ctx context.Context, code string) (*model.Book, error)
	List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error)
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

type Ledger interface {
	HasOpenIssue(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error)
}

type Service interface {
	// Create adds a catalog entry under the next free LIB code.
	Create(ctx context.Context, title, author, category string) (*model.Book, error)
	List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error)
	Detail(ctx context.Context, code string) (*model.Book, error)

	// Delete removes a book, refusing while an open issue exists or while
	// ledger history still references it.
	Delete(ctx context.Context, code string) error
}

type service struct {
	db     DB
	r      Repo
	ledger Ledger
}

func New(db DB, r Repo, ledger Ledger) Service {
	return &service{db: db, r: r, ledger: ledger}
}

func (s *service) Create(ctx context.Context, title, author, category string) (*model.Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" || author == "" || !model.ValidCategory(category) {
		return nil, makeErr(ErrBadInput)
	}

	code, err := s.r.NextCode(ctx)
	if err != nil {
		return nil, err
	}
	b := &model.Book{Code: code, Title: title, Author: author, Category: category}
	if err := s.r.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error) {
	return s.r.List(ctx, f)
}

func (s *service) Detail(ctx context.Context, code string) (*model.Book, error) {
	norm, ok := model.NormalizeBookCode(code)
	if !ok {
		return nil, makeErr(ErrBadInput)
	}
	b, err := s.r.ByCode(ctx, norm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, code string) (err error) {
	b, err := s.Detail(ctx, code)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	open, err := s.ledger.HasOpenIssue(ctx, tx, b.ID)
	if err != nil {
		return err
	}
	if open {
		err = makeErr(ErrOpenIssue)
		return err
	}

	if err = s.r.Delete(ctx, tx, b.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			err = wrapErr(ErrHasHistory, err)
		}
		return err
	}
	return tx.Commit(ctx)
}
