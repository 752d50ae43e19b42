// model/book.go
package model

import (
	"regexp"
	"strings"
	"time"
)

type Book struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
}

// Categories the catalog accepts, same fixed set the frontend filters on.
var Categories = []string{
	"Fiction",
	"Science",
	"Technology",
	"History",
	"Philosophy",
	"Arts",
	"Mathematics",
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

var bookCodeRe = regexp.MustCompile(`^LIB\d{3,}$`)

// NormalizeBookCode trims and uppercases a human-entered book code and
// reports whether it matches the LIB### shape. Empty input never matches.
func NormalizeBookCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code, bookCodeRe.MatchString(code)
}
