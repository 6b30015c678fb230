package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/fundwatch/internal/core/domain"
)

// ProtocolDetailsError is shown in place of a sentiment summary that could
// not be loaded.
const ProtocolDetailsError = "Failed to load details"

// ProtocolView is a tracked protocol with its sentiment summary.
type ProtocolView struct {
	Name      string                    `json:"name"`
	Sentiment *domain.ProtocolSentiment `json:"sentiment,omitempty"`
	Label     domain.Sentiment          `json:"label,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

// Protocols lists every protocol with its sentiment. Only a failure to list
// the protocols is an error; a failed summary is marked on its entry.
func (s *Service) Protocols(ctx context.Context) ([]ProtocolView, error) {
	names, err := s.backend.Protocols(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load protocols: %w", err)
	}

	views := make([]ProtocolView, len(names))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, name := range names {
		views[i].Name = name
		g.Go(func() error {
			sentiment, err := s.backend.ProtocolSentiment(ctx, name)
			if err != nil {
				s.logger.Warn("Error fetching protocol details", "protocol", name, "error", err)
				views[i].Error = ProtocolDetailsError
				return nil
			}
			views[i].Sentiment = sentiment
			if sentiment.AverageSentiment != nil {
				views[i].Label = domain.ClassifySentiment(*sentiment.AverageSentiment)
			}
			return nil
		})
	}
	_ = g.Wait()

	return views, nil
}
