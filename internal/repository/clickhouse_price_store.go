package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RiskIQ/internal/domain/models"
	domrepo "RiskIQ/internal/domain/repository"
	pkgch "RiskIQ/pkg/clickhouse"
	applogger "RiskIQ/pkg/logger"
)

// CHPriceStore implements PriceSource backed by a ClickHouse table of
// daily bars. Used when the service runs against pre-loaded history
// instead of the live market-data API.
type CHPriceStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

var _ domrepo.PriceSource = (*CHPriceStore)(nil)

const dailyBarsTable = "riskiq.daily_bars"

func (s *CHPriceStore) History(ctx context.Context, ticker, period, interval string) ([]models.PriceBar, error) {
	start := time.Now()
	from, err := periodStart(period, time.Now())
	if err != nil {
		return nil, err
	}

	const qtpl = `
        SELECT toString(date), open, high, low, close, volume
        FROM %s
        WHERE ticker = ? AND date >= ?
        ORDER BY date ASC
    `
	q := fmt.Sprintf(qtpl, dailyBarsTable)
	rows, err := s.db.QueryContext(ctx, q, ticker, from)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse history query error",
				applogger.String("ticker", ticker),
				applogger.String("period", period),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceBar, 0, 512)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse history scan error",
					applogger.String("ticker", ticker),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse history ok",
			applogger.String("ticker", ticker),
			applogger.String("period", period),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHPriceStore) Currency(ctx context.Context, ticker string) string {
	const q = `SELECT currency FROM riskiq.tickers WHERE ticker = ? LIMIT 1`
	var c string
	if err := s.db.QueryRowContext(ctx, q, ticker).Scan(&c); err != nil {
		return ""
	}
	return c
}

// periodStart maps a chart-style period token to the inclusive start
// date of the window ending at now.
func periodStart(period string, now time.Time) (time.Time, error) {
	day := now.Truncate(24 * time.Hour)
	switch period {
	case "", "1y":
		return day.AddDate(-1, 0, 0), nil
	case "1mo":
		return day.AddDate(0, -1, 0), nil
	case "3mo":
		return day.AddDate(0, -3, 0), nil
	case "6mo":
		return day.AddDate(0, -6, 0), nil
	case "2y":
		return day.AddDate(-2, 0, 0), nil
	case "5y":
		return day.AddDate(-5, 0, 0), nil
	case "10y":
		return day.AddDate(-10, 0, 0), nil
	case "max":
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported period: %s", period)
	}
}
