// service/auth/auth_service_test.go
package authsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	authrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/auth"
	userrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/user"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/hash"
)

// nopTx satisfies pgx.Tx without a database; only Commit/Rollback are called
// by the service.
type nopTx struct{ pgx.Tx }

func (nopTx) Commit(ctx context.Context) error   { return nil }
func (nopTx) Rollback(ctx context.Context) error { return nil }

type nopDB struct{}

func (nopDB) Begin(ctx context.Context) (pgx.Tx, error) { return nopTx{}, nil }

type mockAuthRepo struct {
	createFn  func(ctx context.Context, tx pgx.Tx, a *model.Account) error
	byEmailFn func(ctx context.Context, email string) (*model.Account, error)
}

var _ authrepo.Repo = (*mockAuthRepo)(nil)

func (m *mockAuthRepo) Create(ctx context.Context, tx pgx.Tx, a *model.Account) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tx, a)
}

func (m *mockAuthRepo) ByEmail(ctx context.Context, email string) (*model.Account, error) {
	if m.byEmailFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.byEmailFn(ctx, email)
}

type mockUserRepo struct {
	userrepo.Repo
	createFn func(ctx context.Context, tx pgx.Tx, p *model.UserProfile) error
}

func (m *mockUserRepo) Create(ctx context.Context, tx pgx.Tx, p *model.UserProfile) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, tx, p)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint}
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	ar := &mockAuthRepo{
		createFn: func(ctx context.Context, tx pgx.Tx, a *model.Account) error {
			a.ID = 42
			return nil
		},
	}
	ur := &mockUserRepo{
		createFn: func(ctx context.Context, tx pgx.Tx, p *model.UserProfile) error {
			p.ID = 7
			return nil
		},
	}
	svc := New(nopDB{}, ar, ur, "test-secret")

	req := model.RegisterReq{
		Name:     "Spoorthi",
		USN:      " 1xx21cs001 ",
		Email:    "USER@Example.COM",
		Phone:    "9900112233",
		Password: "supersecret",
	}

	p, tok, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(7), p.ID)
	require.Equal(t, int64(42), p.AccountID)
	require.Equal(t, "user@example.com", p.Email)
	require.Equal(t, "1XX21CS001", p.USN)
}

func TestRegister_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := New(nopDB{}, &mockAuthRepo{}, &mockUserRepo{}, "test-secret")

	cases := []model.RegisterReq{
		{Name: " ", USN: "1XX21CS001", Email: "a@b.c", Password: "123456"},
		{Name: "n", USN: "bad-usn", Email: "a@b.c", Password: "123456"},
		{Name: "n", USN: "1XX21CS001", Email: " ", Password: "123456"},
		{Name: "n", USN: "1XX21CS001", Email: "a@b.c", Password: "123"},
	}
	for _, req := range cases {
		_, _, err := svc.Register(ctx, req)
		require.Error(t, err)
		require.Equal(t, ErrBadInput, Code(err))
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	ctx := context.Background()
	ar := &mockAuthRepo{
		createFn: func(ctx context.Context, tx pgx.Tx, a *model.Account) error {
			return uniqueViolation("accounts_email_key")
		},
	}
	svc := New(nopDB{}, ar, &mockUserRepo{}, "test-secret")

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Name: "n", USN: "1XX21CS001", Email: "taken@example.com", Password: "123456",
	})
	require.Error(t, err)
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestRegister_USNTaken(t *testing.T) {
	ctx := context.Background()
	ur := &mockUserRepo{
		createFn: func(ctx context.Context, tx pgx.Tx, p *model.UserProfile) error {
			return uniqueViolation("user_profiles_usn_key")
		},
	}
	svc := New(nopDB{}, &mockAuthRepo{}, ur, "test-secret")

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Name: "n", USN: "1XX21CS001", Email: "ok@example.com", Password: "123456",
	})
	require.Error(t, err)
	require.Equal(t, ErrUSNTaken, Code(err))
}

func TestRegister_CreateError(t *testing.T) {
	ctx := context.Background()
	ar := &mockAuthRepo{
		createFn: func(ctx context.Context, tx pgx.Tx, a *model.Account) error {
			return errors.New("db down")
		},
	}
	svc := New(nopDB{}, ar, &mockUserRepo{}, "test-secret")

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Name: "n", USN: "1XX21CS001", Email: "ok@example.com", Password: "123456",
	})
	require.Error(t, err)

	require.Equal(t, ErrCode(""), Code(err))
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	pw := "supersecret"
	hashed := mustHash(t, pw)

	ar := &mockAuthRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
			return &model.Account{
				ID:           7,
				Email:        "user@example.com",
				PasswordHash: hashed,
				Role:         "user",
			}, nil
		},
	}
	svc := New(nopDB{}, ar, &mockUserRepo{}, "test-secret")

	a, tok, err := svc.Login(ctx, model.LoginReq{
		Email:    "User@Example.com",
		Password: pw,
	})
	require.NoError(t, err)
	require.NotNil(t, a)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(7), a.ID)
}

func TestLogin_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := New(nopDB{}, &mockAuthRepo{}, &mockUserRepo{}, "test-secret")

	_, _, err := svc.Login(ctx, model.LoginReq{
		Email:    " ",
		Password: "",
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestLogin_UserNotFound(t *testing.T) {
	ctx := context.Background()
	ar := &mockAuthRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := New(nopDB{}, ar, &mockUserRepo{}, "test-secret")

	_, _, err := svc.Login(ctx, model.LoginReq{
		Email:    "missing@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()

	hashed := mustHash(t, "correct-password")

	ar := &mockAuthRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.Account, error) {
			return &model.Account{
				ID:           101,
				Email:        "user@example.com",
				PasswordHash: hashed,
				Role:         "user",
			}, nil
		},
	}
	svc := New(nopDB{}, ar, &mockUserRepo{}, "test-secret")

	_, _, err := svc.Login(ctx, model.LoginReq{
		Email:    "user@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrEmailTaken, Code(wrapErr(ErrEmailTaken, errors.New("x"))))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}
