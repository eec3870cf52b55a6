package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/internal/services/series"
)

// PricesUseCase returns raw daily records for display.
type PricesUseCase struct {
	source domrepo.PriceSource
	now    func() time.Time
}

func NewPricesUseCase(source domrepo.PriceSource) *PricesUseCase {
	return &PricesUseCase{source: source, now: time.Now}
}

type GetPricesParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetPricesResult struct {
	Symbol  string
	From    time.Time
	To      time.Time
	Count   int
	Records []models.PriceRecord
}

// GetPrices fetches records in chronological order, keeping the most recent
// Limit rows.
func (uc *PricesUseCase) GetPrices(ctx context.Context, p GetPricesParams) (*GetPricesResult, error) {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if p.Symbol == "" {
		return nil, fmt.Errorf("%w: please enter a stock ticker", models.ErrInvalidParams)
	}
	if p.From.IsZero() {
		p.From = DefaultStart
	}
	if p.To.IsZero() {
		p.To = uc.now()
	}
	p.From, p.To = models.Day(p.From), models.Day(p.To)
	if p.From.After(p.To) {
		return nil, fmt.Errorf("%w: from must be <= to", models.ErrInvalidParams)
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	records, err := uc.source.GetDailyPrices(ctx, p.Symbol, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEmptyInput, err)
	}
	if len(records) == 0 {
		return nil, models.ErrEmptyInput
	}

	records = series.SortRecords(records)
	if len(records) > p.Limit {
		records = records[len(records)-p.Limit:]
	}

	return &GetPricesResult{
		Symbol:  p.Symbol,
		From:    p.From,
		To:      p.To,
		Count:   len(records),
		Records: records,
	}, nil
}
