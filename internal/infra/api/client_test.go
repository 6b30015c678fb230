package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/fundwatch/internal/core/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.APIConfig{BaseURL: server.URL + "/", Timeout: 5 * time.Second}, nil)
}

func TestClient_Users(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"username":"alice"},{"id":2,"username":"bob"}]`))
	})

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[1].Username)
}

func TestClient_Channels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":7,"name":"general"}]`))
	})

	channels, err := c.Channels(context.Background())
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, int64(7), channels[0].ID)
}

func TestClient_Messages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages/", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":1,"user_id":1,"channel_id":7,"content":"gm","created_at":"2024-03-01T10:00:00","sentiment_score":0.5,"protocol_name":"aave"},
			{"id":2,"user_id":2,"channel_id":7,"content":"hm","created_at":"2024-03-01T11:00:00","sentiment_score":null}]`))
	})

	messages, err := c.Messages(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.NotNil(t, messages[0].SentimentScore)
	assert.Equal(t, 0.5, *messages[0].SentimentScore)
	assert.Equal(t, "aave", *messages[0].ProtocolName)
	assert.Nil(t, messages[1].SentimentScore)
}

func TestClient_Protocols(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["aave","uniswap"]`))
	})

	protocols, err := c.Protocols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"aave", "uniswap"}, protocols)
}

func TestClient_ProtocolSentimentEscapesName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/protocols/curve%20finance/sentiment", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"message_count":3,"average_sentiment":-0.25,"latest_risk_assessment":"medium"}`))
	})

	s, err := c.ProtocolSentiment(context.Background(), "curve finance")
	require.NoError(t, err)
	assert.Equal(t, 3, s.MessageCount)
	assert.Equal(t, -0.25, *s.AverageSentiment)
	assert.Equal(t, "medium", *s.LatestRiskAssessment)
}

func TestClient_StatusError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"detail":"Protocol not found"}`, http.StatusNotFound)
	})

	_, err := c.ProtocolSentiment(context.Background(), "nope")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Protocol not found")
	assert.Equal(t, 1, calls, "no retries")
}

func TestClient_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := c.Users(context.Background())
	assert.ErrorContains(t, err, "unmarshal")
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/protocols/{name}/sentiment", endpointLabel("/protocols/aave/sentiment"))
	assert.Equal(t, "/users/", endpointLabel("/users/"))
}
