package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
)

type booksMock struct {
	byCodeFn func(ctx context.Context, code string) (*model.Book, error)
}

func (m *booksMock) ByCode(ctx context.Context, code string) (*model.Book, error) {
	return m.byCodeFn(ctx, code)
}

type usersMock struct {
	bySerialFn func(ctx context.Context, usn string) (*model.UserProfile, error)
}

func (m *usersMock) BySerial(ctx context.Context, usn string) (*model.UserProfile, error) {
	return m.bySerialFn(ctx, usn)
}

func TestFindBookByCode_Normalizes(t *testing.T) {
	var got string
	b := &booksMock{byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
		got = code
		return &model.Book{ID: 1, Code: code}, nil
	}}
	s := New(b, &usersMock{})

	for _, in := range []string{"LIB001", "lib001", "  Lib001  "} {
		out, err := s.FindBookByCode(context.Background(), in)
		if err != nil {
			t.Fatalf("FindBookByCode(%q): %v", in, err)
		}
		if got != "LIB001" || out.Code != "LIB001" {
			t.Fatalf("FindBookByCode(%q) queried %q; want LIB001", in, got)
		}
	}
}

func TestFindBookByCode_BadInputBeforeStore(t *testing.T) {
	called := false
	b := &booksMock{byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
		called = true
		return nil, nil
	}}
	s := New(b, &usersMock{})

	for _, in := range []string{"", "   ", "LIB1", "BOOK001", "LIBxyz"} {
		_, err := s.FindBookByCode(context.Background(), in)
		if Code(err) != ErrBadInput {
			t.Fatalf("FindBookByCode(%q) = %v; want BAD_INPUT", in, err)
		}
	}
	if called {
		t.Fatal("store must not be queried for malformed codes")
	}
}

func TestFindBookByCode_NotFoundVsStoreError(t *testing.T) {
	b := &booksMock{byCodeFn: func(ctx context.Context, code string) (*model.Book, error) {
		return nil, pgx.ErrNoRows
	}}
	s := New(b, &usersMock{})
	_, err := s.FindBookByCode(context.Background(), "LIB999")
	if Code(err) != ErrNotFound {
		t.Fatalf("got %v; want NOT_FOUND", err)
	}

	b.byCodeFn = func(ctx context.Context, code string) (*model.Book, error) {
		return nil, errors.New("connection refused")
	}
	_, err = s.FindBookByCode(context.Background(), "LIB999")
	if Code(err) != ErrStoreUnavailable {
		t.Fatalf("got %v; want STORE_UNAVAILABLE", err)
	}
}

func TestFindUserBySerial(t *testing.T) {
	var got string
	u := &usersMock{bySerialFn: func(ctx context.Context, usn string) (*model.UserProfile, error) {
		got = usn
		return &model.UserProfile{ID: 10, USN: usn}, nil
	}}
	s := New(&booksMock{}, u)

	out, err := s.FindUserBySerial(context.Background(), " 1xx21cs001 ")
	if err != nil {
		t.Fatalf("FindUserBySerial: %v", err)
	}
	if got != "1XX21CS001" || out.USN != "1XX21CS001" {
		t.Fatalf("queried %q; want 1XX21CS001", got)
	}

	if _, err := s.FindUserBySerial(context.Background(), "21CS001"); Code(err) != ErrBadInput {
		t.Fatalf("short serial: got %v; want BAD_INPUT", err)
	}

	u.bySerialFn = func(ctx context.Context, usn string) (*model.UserProfile, error) {
		return nil, pgx.ErrNoRows
	}
	if _, err := s.FindUserBySerial(context.Background(), "9ZZ99ZZ999"); Code(err) != ErrNotFound {
		t.Fatalf("unknown serial: got %v; want NOT_FOUND", err)
	}
}
