package reportsvc

import (
	"context"
	"time"

	reportrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/report"
	txnrepo "github.com/spoorthi4230-pixel/book-worm-desk/repository/txn"
)

// Dashboard is what the admin overview renders.
type Dashboard struct {
	Summary         reportrepo.Summary         `json:"summary"`
	Overdue         []txnrepo.HistoryRow       `json:"overdue"`
	Inconsistencies []reportrepo.Inconsistency `json:"inconsistencies,omitempty"`
}

type Ledger interface {
	ListOpen(ctx context.Context) ([]txnrepo.HistoryRow, error)
}

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	r      reportrepo.Repo
	ledger Ledger
}

func New(r reportrepo.Repo, ledger Ledger) Service {
	return &service{r: r, ledger: ledger}
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := time.Now().UTC()

	sum, err := s.r.Summarize(ctx, now)
	if err != nil {
		return nil, err
	}

	open, err := s.ledger.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	var overdue []txnrepo.HistoryRow
	for _, h := range open {
		if h.DueAt.Before(now) {
			overdue = append(overdue, h)
		}
	}

	bad, err := s.r.Inconsistencies(ctx)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Summary: *sum, Overdue: overdue, Inconsistencies: bad}, nil
}
