package circulation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	txnrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/txn"
	"github.com/spoorthi4230-pixel/book-worm-desk/service/catalog"
)

// loanPeriod is how long a book stays out before it is due.
const loanPeriod = 14 * 24 * time.Hour

// errors used by controllers

type ErrCode string

const (
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrBookUnavailable: Issue attempted while the book is out. Guard
	// violation, not retryable without new input.
	ErrBookUnavailable ErrCode = "BOOK_UNAVAILABLE"
	// ErrBookNotIssued: Return attempted while the book is on the shelf.
	ErrBookNotIssued ErrCode = "BOOK_NOT_ISSUED"
	// ErrInconsistentState: the availability flag disagrees with the ledger.
	// Never auto-corrected; Return fails closed unless the admin forces it.
	ErrInconsistentState ErrCode = "INCONSISTENT_STATE"
	ErrStoreUnavailable  ErrCode = "STORE_UNAVAILABLE"
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

// DB begins the transaction every state transition runs in. *pgxpool.Pool
// satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Books interface {
	MarkIssued(ctx context.Context, tx pgx.Tx, id int64) (int64, error)
	MarkAvailable(ctx context.Context, tx pgx.Tx, id int64) (int64, error)
}

type Ledger interface {
	InsertIssue(ctx context.Context, tx pgx.Tx, t *model.Transaction) error
	OpenIssueForBook(ctx context.Context, tx pgx.Tx, bookID int64) (*model.Transaction, error)
	StampReturn(ctx context.Context, tx pgx.Tx, txnID int64, at time.Time) error
	HistoryForBook(ctx context.Context, bookID int64) ([]txnrepo.HistoryRow, error)
	HistoryForUser(ctx context.Context, userID int64) ([]txnrepo.HistoryRow, error)
	ListOpen(ctx context.Context) ([]txnrepo.HistoryRow, error)
}

type IssueResult struct {
	Txn  model.Transaction
	Book model.Book
	User model.UserProfile
}

type ReturnResult struct {
	// Txn is nil when ForceAvailable repaired an inconsistent book with no
	// open ledger entry.
	Txn  *model.Transaction
	Book model.Book
}

type ReturnOpts struct {
	// ForceAvailable lets an admin flip a book back to available even when
	// no open issue entry exists for it.
	ForceAvailable bool
}

type Service interface {
	// Issue moves an available book to issued for the given member. The
	// guard and the flip are one conditional write; the ledger entry commits
	// in the same transaction.
	Issue(ctx context.Context, bookCode, usn string) (*IssueResult, error)

	// Return moves an issued book back to available and stamps the open
	// ledger entry.
	Return(ctx context.Context, bookCode string, opts ReturnOpts) (*ReturnResult, error)

	HistoryForBook(ctx context.Context, bookCode string) ([]txnrepo.HistoryRow, error)
	HistoryForUser(ctx context.Context, usn string) ([]txnrepo.HistoryRow, error)
	ListOpen(ctx context.Context) ([]txnrepo.HistoryRow, error)
}

// ----- Service implementation -----

type service struct {
	db     DB
	cat    catalog.Service
	books  Books
	ledger Ledger
}

func New(db DB, cat catalog.Service, books Books, ledger Ledger) Service {
	return &service{db: db, cat: cat, books: books, ledger: ledger}
}

// fromCatalog maps lookup errors into this package's codes so controllers
// only ever switch on one taxonomy.
func fromCatalog(err error) error {
	switch catalog.Code(err) {
	case catalog.ErrBadInput:
		return wrapErr(ErrBadInput, err)
	case catalog.ErrNotFound:
		return wrapErr(ErrNotFound, err)
	case catalog.ErrStoreUnavailable:
		return wrapErr(ErrStoreUnavailable, err)
	default:
		return err
	}
}

func (s *service) Issue(ctx context.Context, bookCode, usn string) (res *IssueResult, err error) {
	b, err := s.cat.FindBookByCode(ctx, bookCode)
	if err != nil {
		return nil, fromCatalog(err)
	}
	u, err := s.cat.FindUserBySerial(ctx, usn)
	if err != nil {
		return nil, fromCatalog(err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, wrapErr(ErrStoreUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Guard + transition in one conditional write. Zero rows means another
	// session got there first, or the book was already out.
	aff, err := s.books.MarkIssued(ctx, tx, b.ID)
	if err != nil {
		err = wrapErr(ErrStoreUnavailable, err)
		return nil, err
	}
	if aff == 0 {
		err = makeErr(ErrBookUnavailable)
		return nil, err
	}

	now := time.Now().UTC()
	t := &model.Transaction{
		BookID:   b.ID,
		UserID:   u.ID,
		IssuedAt: now,
		DueAt:    now.Add(loanPeriod),
	}
	if err = s.ledger.InsertIssue(ctx, tx, t); err != nil {
		err = wrapErr(ErrStoreUnavailable, err)
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		err = wrapErr(ErrStoreUnavailable, err)
		return nil, err
	}

	b.Available = false
	return &IssueResult{Txn: *t, Book: *b, User: *u}, nil
}

func (s *service) Return(ctx context.Context, bookCode string, opts ReturnOpts) (res *ReturnResult, err error) {
	b, err := s.cat.FindBookByCode(ctx, bookCode)
	if err != nil {
		return nil, fromCatalog(err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, wrapErr(ErrStoreUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	aff, err := s.books.MarkAvailable(ctx, tx, b.ID)
	if err != nil {
		err = wrapErr(ErrStoreUnavailable, err)
		return nil, err
	}
	if aff == 0 {
		err = makeErr(ErrBookNotIssued)
		return nil, err
	}

	open, err := s.ledger.OpenIssueForBook(ctx, tx, b.ID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			err = wrapErr(ErrStoreUnavailable, err)
			return nil, err
		}
		// available=false but no open entry: the invariant is broken. Fail
		// closed; only an explicit admin override commits the flip alone.
		if !opts.ForceAvailable {
			err = makeErr(ErrInconsistentState)
			return nil, err
		}
		if err = tx.Commit(ctx); err != nil {
			err = wrapErr(ErrStoreUnavailable, err)
			return nil, err
		}
		b.Available = true
		return &ReturnResult{Book: *b}, nil
	}

	now := time.Now().UTC()
	if err = s.ledger.StampReturn(ctx, tx, open.ID, now); err != nil {
		err = wrapErr(ErrStoreUnavailable, err)
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		err = wrapErr(ErrStoreUnavailable, err)
		return nil, err
	}

	open.ReturnedAt = &now
	b.Available = true
	return &ReturnResult{Txn: open, Book: *b}, nil
}

func (s *service) HistoryForBook(ctx context.Context, bookCode string) ([]txnrepo.HistoryRow, error) {
	b, err := s.cat.FindBookByCode(ctx, bookCode)
	if err != nil {
		return nil, fromCatalog(err)
	}
	return s.ledger.HistoryForBook(ctx, b.ID)
}

func (s *service) HistoryForUser(ctx context.Context, usn string) ([]txnrepo.HistoryRow, error) {
	u, err := s.cat.FindUserBySerial(ctx, usn)
	if err != nil {
		return nil, fromCatalog(err)
	}
	return s.ledger.HistoryForUser(ctx, u.ID)
}

func (s *service) ListOpen(ctx context.Context) ([]txnrepo.HistoryRow, error) {
	return s.ledger.ListOpen(ctx)
}
