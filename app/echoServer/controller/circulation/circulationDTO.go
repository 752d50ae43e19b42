package circulation

type IssueReq struct {
	BookCode string `json:"book_code" validate:"required"`
	USN      string `json:"usn" validate:"required"`
}

type ReturnReq struct {
	BookCode string `json:"book_code" validate:"required"`
	// ForceAvailable repairs a book the ledger lost track of. Admin-only
	// escape hatch; normal returns never set it.
	ForceAvailable bool `json:"force_available"`
}
