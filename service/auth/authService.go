package authsvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	authrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/auth"
	userrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/user"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/hash"
	jwtutil "github.com/spoorthi4230-pixel/book-worm-desk/util/jwt"
)

type ErrCode string

const (
	ErrBadInput     ErrCode = "BAD_INPUT"
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
	ErrUSNTaken     ErrCode = "USN_TAKEN"
	ErrInvalidCreds ErrCode = "INVALID_CREDS"
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

type Service interface {
	// Register creates the login account and the member profile as one
	// transaction and returns a session token.
	Register(ctx context.Context, req model.RegisterReq) (*model.UserProfile, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.Account, string, error)
}

type service struct {
	db     DB
	ar     authrepo.Repo
	ur     userrepo.Repo
	secret string
}

func New(db DB, ar authrepo.Repo, ur userrepo.Repo, secret string) Service {
	return &service{db: db, ar: ar, ur: ur, secret: secret}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (p *model.UserProfile, token string, err error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	usn, ok := model.NormalizeUSN(req.USN)
	if name == "" || email == "" || !ok || len(req.Password) < 6 {
		return nil, "", makeErr(ErrBadInput)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	a := &model.Account{
		Email:        email,
		PasswordHash: hashed,
		Role:         "user",
	}
	p = &model.UserProfile{
		Name:  name,
		USN:   usn,
		Email: email,
		Phone: strings.TrimSpace(req.Phone),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = s.ar.Create(ctx, tx, a); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			err = derr
		}
		return nil, "", err
	}
	p.AccountID = a.ID
	if err = s.ur.Create(ctx, tx, p); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			err = derr
		}
		return nil, "", err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, "", err
	}

	token, err = jwtutil.Issue(s.secret, a.ID, a.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return p, token, nil
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "accounts_email") || strings.Contains(msg, "email") {
			return wrapErr(ErrEmailTaken, err)
		}
		if strings.Contains(cn, "user_profiles_usn") || strings.Contains(msg, "usn") {
			return wrapErr(ErrUSNTaken, err)
		}
		return wrapErr(ErrBadInput, err)
	}
	return nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.Account, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", makeErr(ErrBadInput)
	}

	a, err := s.ar.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidCreds)
		}
		return nil, "", err
	}
	if a == nil || !hash.Check(a.PasswordHash, req.Password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	token, err := jwtutil.Issue(s.secret, a.ID, a.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}
