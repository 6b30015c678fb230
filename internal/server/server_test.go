package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/fundwatch/internal/core/domain"
	"github.com/vietddude/fundwatch/internal/dashboard"
	"github.com/vietddude/fundwatch/internal/fund"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDashboard struct {
	messagesErr error
	lastLimit   int
}

func (s *stubDashboard) Overview(ctx context.Context) dashboard.Overview {
	return dashboard.Overview{UserCount: 2, TotalSupply: "1.0"}
}

func (s *stubDashboard) Messages(ctx context.Context, limit int) ([]dashboard.MessageView, error) {
	s.lastLimit = limit
	if s.messagesErr != nil {
		return nil, s.messagesErr
	}
	return []dashboard.MessageView{{Message: domain.Message{ID: 1, Content: "gm"}, Username: "alice"}}, nil
}

func (s *stubDashboard) Protocols(ctx context.Context) ([]dashboard.ProtocolView, error) {
	return []dashboard.ProtocolView{{Name: "aave"}, {Name: "curve", Error: dashboard.ProtocolDetailsError}}, nil
}

func (s *stubDashboard) FundPage(ctx context.Context) dashboard.FundPage {
	return dashboard.FundPage{Summary: domain.FundSummary{TotalSupply: "3.0"}, Deposits: 1}
}

type stubFund struct {
	err error
}

func (s stubFund) Summary(ctx context.Context) (domain.FundSummary, error) {
	if s.err != nil {
		return domain.ZeroSummary, s.err
	}
	return domain.FundSummary{TotalSupply: "1.0"}, nil
}

func (s stubFund) Shares(ctx context.Context, account common.Address) string {
	return "2.5"
}

type stubHistory struct{}

func (stubHistory) Fetch(ctx context.Context) fund.HistoryReport {
	return fund.HistoryReport{Events: []domain.LedgerEvent{}, Status: fund.HistoryUnavailable}
}

type stubNode struct {
	health provider.HealthStatus
}

func (s stubNode) GetName() string {
	return "node"
}

func (s stubNode) GetHealth() provider.HealthStatus {
	return s.health
}

func newTestServer(deps Deps) http.Handler {
	if deps.Dashboard == nil {
		deps.Dashboard = &stubDashboard{}
	}
	if deps.Fund == nil {
		deps.Fund = stubFund{}
	}
	if deps.History == nil {
		deps.History = stubHistory{}
	}
	if deps.Node == nil {
		deps.Node = stubNode{health: provider.HealthStatus{Available: true, Status: "healthy"}}
	}
	return New(0, deps, nil).Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		health provider.HealthStatus
		code   int
		status string
	}{
		{"healthy", provider.HealthStatus{Available: true, Status: "healthy"}, http.StatusOK, "healthy"},
		{"overloaded", provider.HealthStatus{Available: true, Status: "overloaded"}, http.StatusOK, "degraded"},
		{"down", provider.HealthStatus{Available: false, Status: "healthy"}, http.StatusServiceUnavailable, "critical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(Deps{Node: stubNode{health: tt.health}}), "/health")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.status, decode(t, rec)["status"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(Deps{})
	get(t, h, "/api/overview")

	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fundwatch_http_requests_total")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(Deps{})

	rec := get(t, h, "/api/overview")
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestOverview(t *testing.T) {
	rec := get(t, newTestServer(Deps{}), "/api/overview")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["user_count"])
	assert.Equal(t, "1.0", body["total_supply"])
}

func TestMessages(t *testing.T) {
	d := &stubDashboard{}
	h := newTestServer(Deps{Dashboard: d})

	rec := get(t, h, "/api/messages?limit=20")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, d.lastLimit)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "alice", views[0]["username"])
	assert.Equal(t, "gm", views[0]["content"])

	rec = get(t, h, "/api/messages?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessages_BackendError(t *testing.T) {
	h := newTestServer(Deps{Dashboard: &stubDashboard{messagesErr: errors.New("http 500")}})

	rec := get(t, h, "/api/messages")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to load messages", decode(t, rec)["error"])
}

func TestProtocols(t *testing.T) {
	rec := get(t, newTestServer(Deps{}), "/api/protocols")
	assert.Equal(t, http.StatusOK, rec.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "Failed to load details", views[1]["error"])
}

func TestFundSummary(t *testing.T) {
	rec := get(t, newTestServer(Deps{}), "/api/fund/summary")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0", decode(t, rec)["totalSupply"])
}

func TestFundSummary_ConnectionError(t *testing.T) {
	h := newTestServer(Deps{Fund: stubFund{err: &fund.ConnectionError{Err: fund.ErrContractNotFound}}})

	rec := get(t, h, "/api/fund/summary")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["retry"])
	assert.Equal(t, "connectivity", body["category"])
}

func TestFundHistory(t *testing.T) {
	rec := get(t, newTestServer(Deps{}), "/api/fund/history")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, []any{}, body["events"])
}

func TestFundPage(t *testing.T) {
	rec := get(t, newTestServer(Deps{}), "/api/fund")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["deposits"])
}

func TestFundShares(t *testing.T) {
	h := newTestServer(Deps{})

	rec := get(t, h, "/api/fund/shares/0xa0ee7a142d267c1f36714e4a8f75612f20a79720")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "0xa0Ee7A142d267C1f36714E4a8F75612F20a79720", body["address"])
	assert.Equal(t, "2.5", body["shares"])

	rec = get(t, h, "/api/fund/shares/bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/overview", nil)
	newTestServer(Deps{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
