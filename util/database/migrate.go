package database

import "context"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key ON accounts (lower(email))`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id            BIGSERIAL PRIMARY KEY,
		account_id    BIGINT NOT NULL REFERENCES accounts(id),
		name          TEXT NOT NULL,
		usn           TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		id_doc_url    TEXT,
		id_doc_status TEXT NOT NULL DEFAULT 'pending',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS user_profiles_usn_key ON user_profiles (usn)`,
	`CREATE TABLE IF NOT EXISTS books (
		id         BIGSERIAL PRIMARY KEY,
		code       TEXT NOT NULL,
		title      TEXT NOT NULL,
		author     TEXT NOT NULL,
		category   TEXT NOT NULL,
		available  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS books_code_key ON books (code)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id          BIGSERIAL PRIMARY KEY,
		book_id     BIGINT NOT NULL REFERENCES books(id),
		user_id     BIGINT NOT NULL REFERENCES user_profiles(id),
		kind        TEXT NOT NULL,
		issued_at   TIMESTAMPTZ NOT NULL,
		due_at      TIMESTAMPTZ NOT NULL,
		returned_at TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS transactions_open_issue_idx
		ON transactions (book_id, issued_at DESC)
		WHERE kind = 'issue' AND returned_at IS NULL`,
}

// Migrate bootstraps the schema. Statements are idempotent so it runs on
// every startup.
func (d *DB) Migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := d.Pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
