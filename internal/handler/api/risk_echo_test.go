package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RiskIQ/internal/domain/models"
	domservice "RiskIQ/internal/domain/service"
	icache "RiskIQ/internal/service/cache"
	"RiskIQ/internal/usecase"
	xlogger "RiskIQ/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	bars  map[string][]models.PriceBar
	calls int
}

func (s *stubSource) History(_ context.Context, ticker, _, _ string) ([]models.PriceBar, error) {
	s.calls++
	bars, ok := s.bars[ticker]
	if !ok {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	return bars, nil
}

func (s *stubSource) Currency(_ context.Context, _ string) string { return "USD" }

type stubModel struct{ name string }

func (m stubModel) Name() string { return m.name }
func (m stubModel) Forecast(_ context.Context, _ []float64) (float64, error) {
	return 0.2, nil
}

type stubNarrative struct{}

func (stubNarrative) Generate(_ context.Context, _ models.PortfolioSummary, _ []models.TickerResult, _ string) (string, string) {
	return "stub narrative", "LOW"
}

type noMetrics struct{}

func (noMetrics) RecordAssessment(string)          {}
func (noMetrics) RecordTickerError(string)         {}
func (noMetrics) RecordVolatility(string, float64) {}
func (noMetrics) RecordLatency(string, float64)    {}

func stubBars(n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	price := 100.0
	for i := range bars {
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.996
		}
		bars[i] = models.PriceBar{Date: fmt.Sprintf("2024-02-%02d", i%28+1), Close: price}
	}
	return bars
}

func newHandler(t *testing.T, src *stubSource) *RiskEchoHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	vols := []domservice.VolatilityModel{
		stubModel{"garch"}, stubModel{"xgboost"}, stubModel{"lstm"},
	}
	assessor := usecase.NewTickerAssessor(src, vols, noMetrics{}, l)
	portfolio := usecase.NewPortfolioAssessor(assessor, stubNarrative{}, nil, noMetrics{}, l)
	h := NewRiskEchoHandler(l, portfolio)
	h.SetRateLimit(1000, 1000)
	return h
}

func doRequest(h *RiskEchoHandler, method, target string, body string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRiskEndpoint(t *testing.T) {
	src := &stubSource{bars: map[string][]models.PriceBar{"AAPL": stubBars(60)}}
	h := newHandler(t, src)

	rec := doRequest(h, http.MethodGet, "/api/risk/AAPL?period=1y&style=concise", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Status int               `json:"status"`
		Data   models.Assessment `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != 200 {
		t.Fatalf("envelope status = %d", envelope.Status)
	}
	a := envelope.Data
	if len(a.Details) != 1 || a.Details[0].Ticker != "AAPL" {
		t.Fatalf("details: %+v", a.Details)
	}
	if a.Summary != "stub narrative" || a.RiskLevel != "LOW" {
		t.Fatalf("narrative fields: %q %q", a.Summary, a.RiskLevel)
	}
	if a.PortfolioSummary.AverageVolatility == nil {
		t.Fatal("average volatility missing for successful ticker")
	}
}

func TestRiskEndpointRejectsBadPeriod(t *testing.T) {
	h := newHandler(t, &stubSource{})

	rec := doRequest(h, http.MethodGet, "/api/risk/AAPL?period=7y", "")
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", envelope.Status)
	}
}

func TestPortfolioEndpointPartialFailure(t *testing.T) {
	src := &stubSource{bars: map[string][]models.PriceBar{
		"AAPL": stubBars(60),
		"MSFT": stubBars(60),
	}}
	h := newHandler(t, src)

	rec := doRequest(h, http.MethodPost, "/api/portfolio",
		`{"tickers":["AAPL","NOPE","MSFT"],"period":"1y"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data models.Assessment `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Details) != 3 {
		t.Fatalf("details = %d, want 3", len(envelope.Data.Details))
	}
	if !envelope.Data.Details[1].Failed() {
		t.Fatalf("expected failure in slot 1: %+v", envelope.Data.Details[1])
	}
	// Failure slots serialize as {ticker, error}, success slots carry
	// full metrics.
	body := rec.Body.String()
	if !strings.Contains(body, `"error":"`) {
		t.Fatalf("failure slot not serialized with error field:\n%s", body)
	}
	if !strings.Contains(body, `"historical_volatility"`) {
		t.Fatalf("success slot missing metrics:\n%s", body)
	}
}

func TestPortfolioEndpointRequiresTickers(t *testing.T) {
	h := newHandler(t, &stubSource{})

	rec := doRequest(h, http.MethodPost, "/api/portfolio", `{"tickers":[]}`)
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", envelope.Status)
	}
}

func TestRiskEndpointCachesResponses(t *testing.T) {
	src := &stubSource{bars: map[string][]models.PriceBar{"AAPL": stubBars(60)}}
	h := newHandler(t, src)
	h.SetCache(icache.NewTTLCache(), 0)

	first := doRequest(h, http.MethodGet, "/api/risk/AAPL", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d", first.Code)
	}
	callsAfterFirst := src.calls

	second := doRequest(h, http.MethodGet, "/api/risk/AAPL", "")
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d", second.Code)
	}
	if src.calls != callsAfterFirst {
		t.Fatalf("second request hit the source: %d -> %d", callsAfterFirst, src.calls)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newHandler(t, &stubSource{})
	rec := doRequest(h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("body: %s", rec.Body.String())
	}
}
