package domain

import "time"

// createdAtLayouts covers the timestamp shapes the REST backend emits.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// User is a chat participant as returned by GET /users/.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Channel is a chat channel as returned by GET /channels/.
type Channel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Message is a chat message with its precomputed sentiment.
type Message struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"user_id"`
	ChannelID      int64    `json:"channel_id"`
	Content        string   `json:"content"`
	CreatedAt      string   `json:"created_at"`
	SentimentScore *float64 `json:"sentiment_score"`
	ProtocolName   *string  `json:"protocol_name,omitempty"`
	RiskAssessment *string  `json:"risk_assessment,omitempty"`
}

// CreatedTime parses CreatedAt. Naive timestamps are taken as UTC.
func (m Message) CreatedTime() (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, m.CreatedAt); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ProtocolSentiment is the per-protocol summary from GET /protocols/{name}/sentiment.
type ProtocolSentiment struct {
	MessageCount         int      `json:"message_count"`
	AverageSentiment     *float64 `json:"average_sentiment"`
	LatestRiskAssessment *string  `json:"latest_risk_assessment,omitempty"`
}

// Sentiment is the coarse label the dashboard attaches to a score.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ClassifySentiment buckets a score using the dashboard's ±0.2 thresholds.
func ClassifySentiment(score float64) Sentiment {
	switch {
	case score > 0.2:
		return SentimentPositive
	case score < -0.2:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
