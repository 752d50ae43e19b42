package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spoorthi4230-pixel/book-worm-desk/model"
	"github.com/spoorthi4230-pixel/book-worm-desk/util/database"
)

type Repo interface {
	Create(ctx context.Context, tx pgx.Tx, p *model.UserProfile) error
	BySerial(ctx context.Context, usn string) (*model.UserProfile, error)
	ByAccount(ctx context.Context, accountID int64) (*model.UserProfile, error)
	List(ctx context.Context) ([]model.UserProfile, error)

	// SetDocument records a fresh upload; the verification status resets to
	// pending until an admin reviews it.
	SetDocument(ctx context.Context, profileID int64, url string) (int64, error)
	SetDocStatus(ctx context.Context, profileID int64, status model.DocStatus) (int64, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const profileCols = `id, account_id, name, usn, email, phone, id_doc_url, id_doc_status, created_at`

func (r *repo) Create(ctx context.Context, tx pgx.Tx, p *model.UserProfile) error {
	return tx.QueryRow(ctx, `
		INSERT INTO user_profiles(account_id, name, usn, email, phone)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, id_doc_status, created_at`,
		p.AccountID, p.Name, p.USN, p.Email, p.Phone,
	).Scan(&p.ID, &p.IDDocStatus, &p.CreatedAt)
}

func (r *repo) BySerial(ctx context.Context, usn string) (*model.UserProfile, error) {
	return r.one(ctx, `
        SELECT `+profileCols+`
        FROM user_profiles
        WHERE lower(usn) = lower($1)`, usn)
}

func (r *repo) ByAccount(ctx context.Context, accountID int64) (*model.UserProfile, error) {
	return r.one(ctx, `
        SELECT `+profileCols+`
        FROM user_profiles
        WHERE account_id = $1`, accountID)
}

func (r *repo) one(ctx context.Context, q string, arg any) (*model.UserProfile, error) {
	p := &model.UserProfile{}
	err := r.db.Pool.QueryRow(ctx, q, arg).
		Scan(&p.ID, &p.AccountID, &p.Name, &p.USN, &p.Email, &p.Phone, &p.IDDocURL, &p.IDDocStatus, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) List(ctx context.Context) ([]model.UserProfile, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+profileCols+`
		FROM user_profiles
		ORDER BY usn`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserProfile
	for rows.Next() {
		var p model.UserProfile
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Name, &p.USN, &p.Email, &p.Phone, &p.IDDocURL, &p.IDDocStatus, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) SetDocument(ctx context.Context, profileID int64, url string) (int64, error) {
	ct, err := r.db.Pool.Exec(ctx, `
		UPDATE user_profiles
		SET id_doc_url = $2,
			id_doc_status = 'pending'
		WHERE id = $1`,
		profileID, url)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *repo) SetDocStatus(ctx context.Context, profileID int64, status model.DocStatus) (int64, error) {
	ct, err := r.db.Pool.Exec(ctx, `
		UPDATE user_profiles
		SET id_doc_status = $2
		WHERE id = $1`,
		profileID, status)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
