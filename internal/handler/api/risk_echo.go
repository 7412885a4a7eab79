package api

import (
	"encoding/json"
	"time"

	models "RiskIQ/internal/domain/models"
	icache "RiskIQ/internal/service/cache"
	"RiskIQ/internal/service/metrics"
	"RiskIQ/internal/service/ratelimit"
	"RiskIQ/internal/usecase"
	xhttp "RiskIQ/pkg/http"
	xlogger "RiskIQ/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RiskEchoHandler exposes the risk endpoints over Echo.
type RiskEchoHandler struct {
	logger    *xlogger.Logger
	portfolio *usecase.PortfolioAssessor
	cache     icache.BytesCache
	cacheTTL  time.Duration
	rl        *ratelimit.Limiter
	rlRPS     float64
	rlBurst   float64
}

func NewRiskEchoHandler(logger *xlogger.Logger, portfolio *usecase.PortfolioAssessor) *RiskEchoHandler {
	metrics.Register()
	return &RiskEchoHandler{
		logger:    logger,
		portfolio: portfolio,
		rl:        ratelimit.New(),
		rlRPS:     2,
		rlBurst:   5,
	}
}

// SetRateLimit overrides the per-client token bucket parameters.
func (h *RiskEchoHandler) SetRateLimit(rps float64, burst int) {
	h.rlRPS = rps
	h.rlBurst = float64(burst)
}

// SetCache enables single-ticker response caching.
func (h *RiskEchoHandler) SetCache(c icache.BytesCache, ttl time.Duration) {
	h.cache = c
	if ttl <= 0 {
		ttl = time.Minute
	}
	h.cacheTTL = ttl
}

func (h *RiskEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/risk/:ticker", h.Risk)
	g.POST("/portfolio", h.Portfolio)
	e.GET("/healthz", h.Health)
}

// Risk assesses a single ticker. The response uses the same shape as
// a one-ticker portfolio.
func (h *RiskEchoHandler) Risk(c echo.Context) error {
	start := time.Now()
	endpoint := "risk"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, h.rlBurst, h.rlRPS) {
		h.logger.Warn("risk rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(429, "rate limited")
	}

	cacheKey := "risk:" + req.Ticker + ":" + req.Period + ":" + req.Interval + ":" + req.Style
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("risk cache_get_error", xlogger.Error(err))
		} else if ok {
			c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
			return xhttp.SuccessResponse(c, json.RawMessage(b))
		}
	}

	res, err := h.portfolio.Assess(c.Request().Context(), usecase.PortfolioParams{
		Tickers:  []string{req.Ticker},
		Period:   req.Period,
		Interval: req.Interval,
		Style:    req.Style,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("risk usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if h.cache != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil {
				h.logger.Warn("risk cache_set_error", xlogger.Error(err))
			}
		}
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

// Portfolio assesses a ticker list. Per-ticker failures surface inside
// the details array; only an empty list is a request-level error.
func (h *RiskEchoHandler) Portfolio(c echo.Context) error {
	start := time.Now()
	endpoint := "portfolio"
	defer func() { metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, h.rlBurst, h.rlRPS) {
		h.logger.Warn("portfolio rate_limited", xlogger.String("remote", c.RealIP()))
		return echo.NewHTTPError(429, "rate limited")
	}

	res, err := h.portfolio.Assess(c.Request().Context(), usecase.PortfolioParams{
		Tickers:  req.Tickers,
		Period:   req.Period,
		Interval: req.Interval,
		Style:    req.Style,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("portfolio usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RiskEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
