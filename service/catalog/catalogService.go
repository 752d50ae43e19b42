package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
)

// errors used by controllers and the circulation service

type ErrCode string

const (
	// ErrBadInput: empty/whitespace or malformed code, rejected before any
	// store call.
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrStoreUnavailable: the store errored or was unreachable. Retryable,
	// unlike ErrNotFound.
	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"
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

func makeErr(c ErrCode) error             { return codedError{code: c} }
func wrapErr(c ErrCode, cause error) error { return codedError{code: c, cause: cause} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Books interface {
	ByCode(ctx context.Context, code string) (*model.Book, error)
}

type Users interface {
	BySerial(ctx context.Context, usn string) (*model.UserProfile, error)
}

// Service resolves operator-entered codes to canonical records. Pure reads,
// no side effects.
type Service interface {
	FindBookByCode(ctx context.Context, code string) (*model.Book, error)
	FindUserBySerial(ctx context.Context, usn string) (*model.UserProfile, error)
}

type service struct {
	b Books
	u Users
}

func New(b Books, u Users) Service { return &service{b: b, u: u} }

func (s *service) FindBookByCode(ctx context.Context, code string) (*model.Book, error) {
	norm, ok := model.NormalizeBookCode(code)
	if !ok {
		return nil, makeErr(ErrBadInput)
	}
	b, err := s.b.ByCode(ctx, norm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, wrapErr(ErrStoreUnavailable, err)
	}
	return b, nil
}

func (s *service) FindUserBySerial(ctx context.Context, usn string) (*model.UserProfile, error) {
	norm, ok := model.NormalizeUSN(usn)
	if !ok {
		return nil, makeErr(ErrBadInput)
	}
	u, err := s.u.BySerial(ctx, norm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, wrapErr(ErrStoreUnavailable, err)
	}
	return u, nil
}
