// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	bookrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/book"
	booksvc "github.com/spoorthi4230-pixel/book-worm-desk/service/book"
)

type nopTx struct{ pgx.Tx }

func (nopTx) Commit(ctx context.Context) error   { return nil }
func (nopTx) Rollback(ctx context.Context) error { return nil }

type nopDB struct{}

func (nopDB) Begin(ctx context.Context) (pgx.Tx, error) { return nopTx{}, nil }

type repoMock struct {
	createFn   func(ctx context.Context, b *model.Book) error
	nextCodeFn func(ctx context.Context) (string, error)
	byCodeFn   func(ctx context.Context, code string) (*model.Book, error)
	listFn     func(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error)
	deleteFn   func(ctx context.Context, tx pgx.Tx, id int64) error
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error { return m.createFn(ctx, b) }
func (m *repoMock) NextCode(ctx context.Context) (string, error)    { return m.nextCodeFn(ctx) }
func (m *repoMock) ByCode(ctx context.Context, code string) (*model.Book, error) {
	return m.byCodeFn(ctx, code)
}
func (m *repoMock) List(ctx context.Context, f bookrepo.ListFilter) ([]model.Book, error) {
	return m.listFn(ctx, f)
}
func (m *repoMock) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return m.deleteFn(ctx, tx, id)
}

type ledgerMock struct {
	hasOpenFn func(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error)
}

func (m *ledgerMock) HasOpenIssue(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error) {
	if m.hasOpenFn == nil {
		return false, nil
	}
	return m.hasOpenFn(ctx, tx, bookID)
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(nopDB{}, &repoMock{}, &ledgerMock{})
	if _, err := s.Create(context.Background(), "", "author", "Fiction"); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatalf("empty title: got %v", err)
	}
	if _, err := s.Create(context.Background(), "title", "  ", "Fiction"); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatalf("blank author: got %v", err)
	}
	if _, err := s.Create(context.Background(), "title", "author", "Cooking"); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatalf("unknown category: got %v", err)
	}
}

func TestCreate_AssignsNextCode(t *testing.T) {
	m := &repoMock{
		nextCodeFn: func(ctx context.Context) (string, error) { return "LIB042", nil },
		createFn: func(ctx context.Context, b *model.Book) error {
			if b.Code != "LIB042" {
				return errors.New("code not assigned before insert")
			}
			b.ID = 42
			return nil
		},
	}
	s := booksvc.New(nopDB{}, m, &ledgerMock{})
	b, err := s.Create(context.Background(), "Clean Code", "Robert C. Martin", "Technology")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Code != "LIB042" || b.ID != 42 {
		t.Fatalf("got %+v; want code LIB042 id 42", b)
	}
}

func TestDetail(t *testing.T) {
	m := &repoMock{
		byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
			if code != "LIB001" {
				t.Fatalf("queried %q; want normalized LIB001", code)
			}
			return &model.Book{ID: 1, Code: code}, nil
		},
	}
	s := booksvc.New(nopDB{}, m, &ledgerMock{})

	if _, err := s.Detail(context.Background(), "lib001"); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if _, err := s.Detail(context.Background(), "nope"); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatalf("malformed code: got %v", err)
	}

	m.byCodeFn = func(ctx context.Context, code string) (*model.Book, error) {
		return nil, pgx.ErrNoRows
	}
	if _, err := s.Detail(context.Background(), "LIB999"); booksvc.Code(err) != booksvc.ErrNotFound {
		t.Fatalf("missing book: got %v", err)
	}
}

func TestDelete_RefusedWhileIssued(t *testing.T) {
	m := &repoMock{
		byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
			return &model.Book{ID: 1, Code: code, Available: false}, nil
		},
		deleteFn: func(ctx context.Context, tx pgx.Tx, id int64) error {
			t.Fatal("delete must not run while an open issue exists")
			return nil
		},
	}
	l := &ledgerMock{hasOpenFn: func(ctx context.Context, tx pgx.Tx, bookID int64) (bool, error) {
		return true, nil
	}}
	s := booksvc.New(nopDB{}, m, l)

	err := s.Delete(context.Background(), "LIB001")
	if booksvc.Code(err) != booksvc.ErrOpenIssue {
		t.Fatalf("got %v; want OPEN_ISSUE", err)
	}
}

func TestDelete_HistoryBlocksRemoval(t *testing.T) {
	m := &repoMock{
		byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
			return &model.Book{ID: 1, Code: code, Available: true}, nil
		},
		deleteFn: func(ctx context.Context, tx pgx.Tx, id int64) error {
			return &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
		},
	}
	s := booksvc.New(nopDB{}, m, &ledgerMock{})

	err := s.Delete(context.Background(), "LIB001")
	if booksvc.Code(err) != booksvc.ErrHasHistory {
		t.Fatalf("got %v; want HAS_HISTORY", err)
	}
}

func TestDelete_Success(t *testing.T) {
	deleted := false
	m := &repoMock{
		byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
			return &model.Book{ID: 1, Code: code, Available: true}, nil
		},
		deleteFn: func(ctx context.Context, tx pgx.Tx, id int64) error {
			deleted = true
			return nil
		},
	}
	s := booksvc.New(nopDB{}, m, &ledgerMock{})

	if err := s.Delete(context.Background(), "LIB001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("repo delete never called")
	}
}
