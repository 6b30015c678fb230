package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/fundwatch/internal/core/domain"
)

const (
	UnknownUser    = "Unknown User"
	UnknownChannel = "Unknown Channel"
)

// MessageView is a message joined with its author and channel.
type MessageView struct {
	domain.Message
	Username    string           `json:"username"`
	ChannelName string           `json:"channel_name"`
	Sentiment   domain.Sentiment `json:"sentiment,omitempty"`
}

// Messages lists recent messages with usernames and channel names resolved.
// A limit of zero or less uses the configured default.
func (s *Service) Messages(ctx context.Context, limit int) ([]MessageView, error) {
	if limit <= 0 {
		limit = s.messageLimit
	}

	var (
		messages []domain.Message
		users    []domain.User
		channels []domain.Channel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		messages, err = s.backend.Messages(gctx, limit)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.backend.Users(gctx)
		return err
	})
	g.Go(func() (err error) {
		channels, err = s.backend.Channels(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	usernames := make(map[int64]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}
	channelNames := make(map[int64]string, len(channels))
	for _, c := range channels {
		channelNames[c.ID] = c.Name
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		v := MessageView{
			Message:     m,
			Username:    UnknownUser,
			ChannelName: UnknownChannel,
		}
		if name, ok := usernames[m.UserID]; ok {
			v.Username = name
		}
		if name, ok := channelNames[m.ChannelID]; ok {
			v.ChannelName = name
		}
		if m.SentimentScore != nil {
			v.Sentiment = domain.ClassifySentiment(*m.SentimentScore)
		}
		views = append(views, v)
	}
	return views, nil
}
