package dashboard

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/fundwatch/internal/core/domain"
)

// SentimentDistribution counts messages per sentiment bucket.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// DailyCount is the number of messages posted on one UTC day.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Overview is the landing page summary.
type Overview struct {
	UserCount     int                   `json:"user_count"`
	MessageCount  int                   `json:"message_count"`
	ProtocolCount int                   `json:"protocol_count"`
	TotalSupply   string                `json:"total_supply"`
	Sentiment     SentimentDistribution `json:"sentiment"`
	Activity      []DailyCount          `json:"activity"`
	APIError      bool                  `json:"api_error"`
	FundError     string                `json:"fund_error,omitempty"`
}

// Overview never fails: REST errors set APIError and leave the affected
// counts at zero, fund errors leave the supply at "0".
func (s *Service) Overview(ctx context.Context) Overview {
	var (
		users     []domain.User
		messages  []domain.Message
		protocols []string
		summary   = domain.FundSummary{TotalSupply: "0"}
		restErrs  = make([]error, 3)
		fundErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		users, restErrs[0] = s.backend.Users(ctx)
		return nil
	})
	g.Go(func() error {
		messages, restErrs[1] = s.backend.Messages(ctx, s.messageLimit)
		return nil
	})
	g.Go(func() error {
		protocols, restErrs[2] = s.backend.Protocols(ctx)
		return nil
	})
	g.Go(func() error {
		var sum domain.FundSummary
		sum, fundErr = s.summary.Summary(ctx)
		if fundErr == nil {
			summary = sum
		}
		return nil
	})
	_ = g.Wait()

	out := Overview{
		UserCount:     len(users),
		MessageCount:  len(messages),
		ProtocolCount: len(protocols),
		TotalSupply:   summary.TotalSupply,
		Sentiment:     sentimentDistribution(messages),
		Activity:      dailyActivity(messages),
	}
	for _, err := range restErrs {
		if err != nil {
			s.logger.Error("Error fetching API data", "error", err)
			out.APIError = true
		}
	}
	if fundErr != nil {
		s.logger.Error("Error fetching blockchain data", "error", fundErr)
		out.FundError = fundErr.Error()
	}
	return out
}

func sentimentDistribution(messages []domain.Message) SentimentDistribution {
	var d SentimentDistribution
	for _, m := range messages {
		label := domain.SentimentNeutral
		if m.SentimentScore != nil {
			label = domain.ClassifySentiment(*m.SentimentScore)
		}
		switch label {
		case domain.SentimentPositive:
			d.Positive++
		case domain.SentimentNegative:
			d.Negative++
		default:
			d.Neutral++
		}
	}
	return d
}

// dailyActivity buckets messages by UTC day, oldest first. Messages with an
// unparseable timestamp are left out.
func dailyActivity(messages []domain.Message) []DailyCount {
	counts := make(map[string]int)
	for _, m := range messages {
		t, ok := m.CreatedTime()
		if !ok {
			continue
		}
		counts[t.Format("2006-01-02")]++
	}

	days := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		days = append(days, DailyCount{Date: date, Count: n})
	}
	slices.SortFunc(days, func(a, b DailyCount) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return days
}
