package model

import (
	"regexp"
	"strings"
	"time"
)

type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type DocStatus string

const (
	DocPending  DocStatus = "pending"
	DocVerified DocStatus = "verified"
	DocRejected DocStatus = "rejected"
)

// UserProfile is the library member record. IDDocStatus starts at pending
// and is changed only by an admin.
type UserProfile struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Name        string    `json:"name"`
	USN         string    `json:"usn"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	IDDocURL    *string   `json:"id_doc_url,omitempty"`
	IDDocStatus DocStatus `json:"id_doc_status"`
	CreatedAt   time.Time `json:"created_at"`
}

// USN shape: digit, two letters, two digits, two letters, three digits
// (e.g. 1XX21CS001), stored uppercase.
var usnRe = regexp.MustCompile(`^\d[A-Z]{2}\d{2}[A-Z]{2}\d{3}$`)

func NormalizeUSN(usn string) (string, bool) {
	usn = strings.ToUpper(strings.TrimSpace(usn))
	return usn, usnRe.MatchString(usn)
}

// RegisterReq represents member registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Name     string `json:"name" validate:"required"`
	USN      string `json:"usn" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
