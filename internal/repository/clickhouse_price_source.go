package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	pkgch "StockForecast/pkg/clickhouse"
	applogger "StockForecast/pkg/logger"
)

// CHPriceSource reads daily bars from a ClickHouse table.
type CHPriceSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.PriceSource = (*CHPriceSource)(nil)

func NewCHPriceSource(ch *pkgch.Client, table string, l *applogger.Logger) *CHPriceSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHPriceSource{db: ch.DB(), table: table, l: l}
}

// SchemaStatements returns the DDL for the daily price table.
func SchemaStatements(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            symbol LowCardinality(String),
            day    Date,
            open   Float64,
            high   Float64,
            low    Float64,
            close  Float64,
            volume Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, day)`, database, table),
	}
}

func (s *CHPriceSource) query(from, to time.Time) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT day, symbol, open, high, low, close, volume FROM %s FINAL WHERE symbol = ?", s.table)
	var args []any
	if !from.IsZero() {
		b.WriteString(" AND day >= ?")
		args = append(args, models.Day(from))
	}
	if !to.IsZero() {
		b.WriteString(" AND day <= ?")
		args = append(args, models.Day(to))
	}
	b.WriteString(" ORDER BY day ASC")
	return b.String(), args
}

func (s *CHPriceSource) GetDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
	start := time.Now()
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	q, args := s.query(from, to)
	args = append([]any{symbol}, args...)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse daily_prices query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get daily prices: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceRecord, 0, 1024)
	for rows.Next() {
		var r models.PriceRecord
		if err := rows.Scan(&r.Date, &r.Symbol, &r.Open, &r.High, &r.Low, &r.Close, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan daily price: %w", err)
		}
		r.Date = models.Day(r.Date)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Debug("clickhouse daily_prices ok",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
