package forecast

import (
	"context"

	"StockForecast/internal/domain/models"
	domsvc "StockForecast/internal/domain/service"
)

// AutoRegressive forecasts with an automatically ordered ARIMA(p,d,q).
type AutoRegressive struct{}

func NewAutoRegressive() *AutoRegressive { return &AutoRegressive{} }

func (AutoRegressive) Name() string { return models.StrategyAutoRegressive }

func (s AutoRegressive) Forecast(ctx context.Context, series models.PriceSeries, horizon int) (models.ForecastSeries, error) {
	if err := checkInput(series, horizon); err != nil {
		return models.ForecastSeries{}, err
	}
	fit, err := fitARIMA(ctx, series.Values)
	if err != nil {
		return models.ForecastSeries{}, err
	}
	return fromSteps(s.Name(), series.LastDate(), fit.predict(horizon), horizon)
}

// TrendSeasonal forecasts with an additive changepoint trend plus weekly and
// yearly seasonality.
type TrendSeasonal struct{}

func NewTrendSeasonal() *TrendSeasonal { return &TrendSeasonal{} }

func (TrendSeasonal) Name() string { return models.StrategyTrendSeasonal }

func (s TrendSeasonal) Forecast(ctx context.Context, series models.PriceSeries, horizon int) (models.ForecastSeries, error) {
	if err := checkInput(series, horizon); err != nil {
		return models.ForecastSeries{}, err
	}
	m, err := fitTrendSeasonal(ctx, series.Dates, series.Values)
	if err != nil {
		return models.ForecastSeries{}, err
	}
	frame, err := m.predict(futureFrame(series.Dates, horizon))
	if err != nil {
		return models.ForecastSeries{}, err
	}
	return fromFrame(s.Name(), series.LastDate(), frame, horizon)
}

// SmoothingTrend forecasts with Holt's additive-trend exponential smoothing.
type SmoothingTrend struct{}

func NewSmoothingTrend() *SmoothingTrend { return &SmoothingTrend{} }

func (SmoothingTrend) Name() string { return models.StrategySmoothingTrend }

func (s SmoothingTrend) Forecast(ctx context.Context, series models.PriceSeries, horizon int) (models.ForecastSeries, error) {
	if err := checkInput(series, horizon); err != nil {
		return models.ForecastSeries{}, err
	}
	m, err := fitHolt(ctx, series.Values)
	if err != nil {
		return models.ForecastSeries{}, err
	}
	return fromStepMap(s.Name(), series.LastDate(), m.forecast(horizon), horizon)
}

var (
	_ domsvc.ForecastStrategy = (*AutoRegressive)(nil)
	_ domsvc.ForecastStrategy = (*TrendSeasonal)(nil)
	_ domsvc.ForecastStrategy = (*SmoothingTrend)(nil)
)
