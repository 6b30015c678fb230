package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/fundwatch/internal/fund"
	"github.com/vietddude/fundwatch/internal/infra/rpc/provider"
)

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

func newHandlers(deps Deps, logger *slog.Logger) *handlers {
	return &handlers{deps: deps, logger: logger}
}

func (h *handlers) register(router *gin.Engine) {
	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/overview", h.overview)
		api.GET("/messages", h.messages)
		api.GET("/protocols", h.protocols)

		fundGroup := api.Group("/fund")
		{
			fundGroup.GET("", h.fundPage)
			fundGroup.GET("/summary", h.fundSummary)
			fundGroup.GET("/history", h.fundHistory)
			fundGroup.GET("/shares/:address", h.fundShares)
		}
	}
}

// health reports the node connection. An unavailable node is critical;
// a throttled or overloaded one only degrades the service.
func (h *handlers) health(c *gin.Context) {
	node := h.deps.Node.GetHealth()

	status, code := "healthy", http.StatusOK
	switch {
	case !node.Available:
		status, code = "critical", http.StatusServiceUnavailable
	case node.Status != provider.StatusHealthy.String():
		status = "degraded"
	}

	c.JSON(code, gin.H{
		"status": status,
		"node": gin.H{
			"name":       h.deps.Node.GetName(),
			"status":     node.Status,
			"error_rate": node.ErrorRate,
			"latency_ms": node.Latency.Milliseconds(),
		},
	})
}

func (h *handlers) overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Dashboard.Overview(c.Request.Context()))
}

func (h *handlers) messages(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	views, err := h.deps.Dashboard.Messages(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Error fetching messages", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *handlers) protocols(c *gin.Context) {
	views, err := h.deps.Dashboard.Protocols(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching protocols", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load protocols"})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *handlers) fundPage(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Dashboard.FundPage(c.Request.Context()))
}

// fundSummary answers 503 when the contract cannot be reached so the client
// can offer a retry.
func (h *handlers) fundSummary(c *gin.Context) {
	summary, err := h.deps.Fund.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":    "Failed to load fund data. Please try again later.",
			"category": fund.Classify(err),
			"retry":    true,
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) fundHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.History.Fetch(c.Request.Context()))
}

func (h *handlers) fundShares(c *gin.Context) {
	raw := c.Param("address")
	if !common.IsHexAddress(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}
	account := common.HexToAddress(raw)

	c.JSON(http.StatusOK, gin.H{
		"address": account.Hex(),
		"shares":  h.deps.Fund.Shares(c.Request.Context(), account),
	})
}
