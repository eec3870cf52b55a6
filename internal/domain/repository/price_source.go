package repository

import (
	"context"
	"time"

	"StockForecast/internal/domain/models"
)

// PriceSource supplies raw daily records for a symbol over [from, to].
// Implementations may return records in any order and may return none.
type PriceSource interface {
	GetDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error)
}

// PriceSourceFunc adapts a function to PriceSource.
type PriceSourceFunc func(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error)

func (f PriceSourceFunc) GetDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
	return f(ctx, symbol, from, to)
}
