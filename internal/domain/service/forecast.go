package service

import (
	"context"

	"StockForecast/internal/domain/models"
)

// ForecastStrategy produces a fixed-horizon forecast from a normalized series.
// A successful result has exactly horizon daily entries starting the day after
// series.LastDate(). Failures wrap models.ErrModelFit.
type ForecastStrategy interface {
	Name() string
	Forecast(ctx context.Context, series models.PriceSeries, horizon int) (models.ForecastSeries, error)
}
