// Package api is a thin client for the dashboard's REST backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vietddude/fundwatch/internal/core/config"
	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/metrics"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: http %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client issues one request per call: no retries, no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.APIConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Users lists chat users.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/users/", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Channels lists chat channels.
func (c *Client) Channels(ctx context.Context) ([]domain.Channel, error) {
	var channels []domain.Channel
	if err := c.get(ctx, "/channels/", nil, &channels); err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// Messages lists up to limit recent messages.
func (c *Client) Messages(ctx context.Context, limit int) ([]domain.Message, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var messages []domain.Message
	if err := c.get(ctx, "/messages/", query, &messages); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// Protocols lists tracked protocol names.
func (c *Client) Protocols(ctx context.Context) ([]string, error) {
	var protocols []string
	if err := c.get(ctx, "/protocols/", nil, &protocols); err != nil {
		return nil, fmt.Errorf("failed to list protocols: %w", err)
	}
	return protocols, nil
}

// ProtocolSentiment returns the sentiment summary of one protocol.
func (c *Client) ProtocolSentiment(ctx context.Context, name string) (*domain.ProtocolSentiment, error) {
	endpoint := fmt.Sprintf("/protocols/%s/sentiment", url.PathEscape(name))

	var sentiment domain.ProtocolSentiment
	if err := c.get(ctx, endpoint, nil, &sentiment); err != nil {
		return nil, fmt.Errorf("failed to get sentiment for %s: %w", name, err)
	}
	return &sentiment, nil
}

// get performs a GET and decodes the JSON body into response.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, response any) error {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(endpointLabel(endpoint), "error").Inc()
		c.logger.Warn("REST request failed", "url", fullURL, "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.APIRequestsTotal.WithLabelValues(endpointLabel(endpoint), strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// endpointLabel keeps per-protocol paths from exploding metric cardinality.
func endpointLabel(endpoint string) string {
	if strings.HasPrefix(endpoint, "/protocols/") && strings.HasSuffix(endpoint, "/sentiment") {
		return "/protocols/{name}/sentiment"
	}
	return endpoint
}
