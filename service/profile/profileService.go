package profilesvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	"github.com/spoorthi4230-pixel/book-worm-desk/repository/docstore"
	userrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/user"
)

type ErrCode string

const (
	ErrBadInput ErrCode = "BAD_INPUT"
	ErrNotFound ErrCode = "NOT_FOUND"
	// ErrUploadFailed: the blob store rejected or never received the
	// document. The profile is untouched.
	ErrUploadFailed ErrCode = "UPLOAD_FAILED"
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

type Service interface {
	Me(ctx context.Context, accountID int64) (*model.UserProfile, error)
	List(ctx context.Context) ([]model.UserProfile, error)

	// UploadDocument stores the identity document in the external blob
	// store and records its URL; verification resets to pending.
	UploadDocument(ctx context.Context, accountID int64, filename, contentType string, body io.Reader) (*model.UserProfile, error)

	// SetVerification is the admin decision on a pending document.
	SetVerification(ctx context.Context, profileID int64, status model.DocStatus) error
}

type service struct {
	ur   userrepo.Repo
	docs docstore.Client
}

func New(ur userrepo.Repo, docs docstore.Client) Service {
	return &service{ur: ur, docs: docs}
}

func (s *service) Me(ctx context.Context, accountID int64) (*model.UserProfile, error) {
	p, err := s.ur.ByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context) ([]model.UserProfile, error) {
	return s.ur.List(ctx)
}

func (s *service) UploadDocument(ctx context.Context, accountID int64, filename, contentType string, body io.Reader) (*model.UserProfile, error) {
	if contentType == "" || body == nil {
		return nil, makeErr(ErrBadInput)
	}
	p, err := s.Me(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("iddoc/%d/%s%s", p.ID, uuid.NewString(), ext)
	url, err := s.docs.Put(ctx, key, contentType, body)
	if err != nil {
		return nil, wrapErr(ErrUploadFailed, err)
	}

	if _, err := s.ur.SetDocument(ctx, p.ID, url); err != nil {
		return nil, err
	}
	p.IDDocURL = &url
	p.IDDocStatus = model.DocPending
	return p, nil
}

func (s *service) SetVerification(ctx context.Context, profileID int64, status model.DocStatus) error {
	if status != model.DocVerified && status != model.DocRejected {
		return makeErr(ErrBadInput)
	}
	aff, err := s.ur.SetDocStatus(ctx, profileID, status)
	if err != nil {
		return err
	}
	if aff == 0 {
		return makeErr(ErrNotFound)
	}
	return nil
}
