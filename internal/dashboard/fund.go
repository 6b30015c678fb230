package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/fund"
)

// FundPage is the fund card plus its transaction list.
type FundPage struct {
	Address      string             `json:"address"`
	Summary      domain.FundSummary `json:"summary"`
	SummaryError string             `json:"summary_error,omitempty"`
	History      fund.HistoryReport `json:"history"`
	Deposits     int                `json:"deposits"`
	Withdrawals  int                `json:"withdrawals"`
}

// FundPage loads the summary and the history independently.
func (s *Service) FundPage(ctx context.Context) FundPage {
	page := FundPage{Address: s.fundAddress}

	var g errgroup.Group
	g.Go(func() error {
		summary, err := s.summary.Summary(ctx)
		page.Summary = summary
		if err != nil {
			page.SummaryError = err.Error()
		}
		return nil
	})
	g.Go(func() error {
		page.History = s.history.Fetch(ctx)
		return nil
	})
	_ = g.Wait()

	page.Deposits, page.Withdrawals = domain.CountByKind(page.History.Events)
	return page
}
