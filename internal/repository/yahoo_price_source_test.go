package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"currency": "EUR"},
      "timestamp": [1704153600, 1704240000, 1704326400],
      "indicators": {"quote": [{
        "open":   [10.0, 10.5, null],
        "high":   [11.0, 11.2, 11.5],
        "low":    [9.8,  10.1, 10.9],
        "close":  [10.4, null, 11.3],
        "volume": [1000, 1100, 900]
      }]}
    }],
    "error": null
  }
}`

func testSource(t *testing.T, handler http.HandlerFunc) (*YahooPriceSource, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := NewYahooPriceSource(5*time.Second, nil)
	s.SetBaseURL(srv.URL)
	return s, srv
}

func TestYahooHistoryDropsNullCloses(t *testing.T) {
	s, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("range"); got != "1y" {
			t.Errorf("range = %q", got)
		}
		w.Write([]byte(chartFixture))
	})

	bars, err := s.History(context.Background(), "SAP", "1y", "1d")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	// The middle row has a null close and must be dropped.
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	if bars[0].Close != 10.4 || bars[1].Close != 11.3 {
		t.Fatalf("closes: %v %v", bars[0].Close, bars[1].Close)
	}
	if bars[0].Date != "2024-01-02" {
		t.Fatalf("date = %q", bars[0].Date)
	}
	// Null open on the last row stays zero, close is still usable.
	if bars[1].Open != 0 {
		t.Fatalf("open = %v, want 0 for null", bars[1].Open)
	}
}

func TestYahooHistoryDefaultsPeriodAndInterval(t *testing.T) {
	s, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "1y" || r.URL.Query().Get("interval") != "1d" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(chartFixture))
	})

	if _, err := s.History(context.Background(), "SAP", "", ""); err != nil {
		t.Fatalf("History: %v", err)
	}
}

func TestYahooHistoryAPIError(t *testing.T) {
	s, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	if _, err := s.History(context.Background(), "NOPE", "1y", "1d"); err == nil {
		t.Fatal("expected error for chart api error payload")
	}
}

func TestYahooHistoryHTTPError(t *testing.T) {
	s, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := s.History(context.Background(), "NOPE", "1y", "1d"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestYahooCurrency(t *testing.T) {
	s, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartFixture))
	})

	if got := s.Currency(context.Background(), "SAP"); got != "EUR" {
		t.Fatalf("currency = %q, want EUR", got)
	}
}

func TestYahooCurrencyUndetectable(t *testing.T) {
	s, _ := testSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if got := s.Currency(context.Background(), "SAP"); got != "" {
		t.Fatalf("currency = %q, want empty on failure", got)
	}
}
