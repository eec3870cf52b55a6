package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/internal/service/metrics"
	"StockForecast/internal/service/ratelimit"
	"StockForecast/internal/services/forecast"
	"StockForecast/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type errorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func linearRecords(from time.Time, days int) []models.PriceRecord {
	out := make([]models.PriceRecord, 0, days)
	for i := 0; i < days; i++ {
		d := from.AddDate(0, 0, i)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		v := 100 + float64(i)
		out = append(out, models.PriceRecord{Date: d, Symbol: "TEST", Open: v, High: v, Low: v, Close: v, Volume: 1000})
	}
	return out
}

func newTestEcho(t *testing.T, recs []models.PriceRecord, rl *ratelimit.Limiter, defaults []string) *echo.Echo {
	t.Helper()
	src := domrepo.PriceSourceFunc(func(context.Context, string, time.Time, time.Time) ([]models.PriceRecord, error) {
		return recs, nil
	})
	reg := forecast.NewDefaultRegistry()
	pipeline := usecase.NewForecastPipeline(src, reg, usecase.NewForecastOrchestrator(reg))
	h := NewForecastEchoHandler(nil, pipeline, usecase.NewPricesUseCase(src), rl,
		metrics.NewEndpoint(prometheus.NewRegistry()), defaults)

	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestForecastChart(t *testing.T) {
	e := newTestEcho(t, linearRecords(start, 40), nil, nil)

	rec := get(e, "/api/forecast?symbol=test&start=2024-01-01&end=2024-02-09&horizon=5&strategies=smoothingtrend")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body envelope[ForecastResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	got := body.Data

	assert.Equal(t, "TEST", got.Symbol)
	assert.Equal(t, []string{models.StrategySmoothingTrend}, got.Strategies)
	assert.Equal(t, "2024-01-01", got.Chart.Dates[0])
	assert.Equal(t, "2024-02-14", got.Chart.Dates[len(got.Chart.Dates)-1])
	require.Len(t, got.Chart.Columns, 2)
	assert.Equal(t, models.HistoryColumn, got.Chart.Columns[0].Name)
	assert.Nil(t, got.Chart.Columns[0].Values[len(got.Chart.Dates)-1], "history is unset on forecast dates")
	assert.Nil(t, got.Chart.Columns[1].Values[0], "forecast is unset on history dates")
	assert.Len(t, got.Table.Dates, 5)
	assert.Empty(t, got.Warnings)
}

func TestForecastTableWithWarnings(t *testing.T) {
	e := newTestEcho(t, linearRecords(start, 10), nil, nil)

	// Ten days is too short for the autoregressive search.
	rec := get(e, "/api/forecast/table?symbol=TEST&start=2024-01-01&end=2024-01-10&horizon=3&strategies=AutoRegressive,SmoothingTrend")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body envelope[TableResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Table.Columns, 1)
	assert.Equal(t, models.StrategySmoothingTrend, body.Data.Table.Columns[0].Strategy)
	assert.Equal(t, []string{"2024-01-11", "2024-01-12", "2024-01-13"}, body.Data.Table.Dates)
	require.Len(t, body.Data.Warnings, 1)
	assert.Equal(t, models.StrategyAutoRegressive, body.Data.Warnings[0].Strategy)
	assert.Equal(t, "forecasting", body.Data.Warnings[0].Stage)
}

func TestForecastUsesDefaultStrategiesWhenOmitted(t *testing.T) {
	e := newTestEcho(t, linearRecords(start, 20), nil, []string{models.StrategySmoothingTrend})

	var body envelope[ForecastResponse]
	rec := get(e, "/api/forecast?symbol=TEST&start=2024-01-01&horizon=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{models.StrategySmoothingTrend}, body.Data.Strategies)

	rec = get(e, "/api/forecast?symbol=TEST&start=2024-01-01&horizon=2&strategies=")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data.Strategies)
	assert.Empty(t, body.Data.Table.Columns)
}

func TestForecastErrors(t *testing.T) {
	one := []models.PriceRecord{{Date: start, Close: 10}}
	cases := []struct {
		name   string
		recs   []models.PriceRecord
		target string
		status int
		code   string
	}{
		{"missing symbol", linearRecords(start, 20), "/api/forecast", http.StatusBadRequest, "ERR_REQUIRED"},
		{"bad ticker", linearRecords(start, 20), "/api/forecast?symbol=A%20B", http.StatusBadRequest, "ERR_TICKER"},
		{"bad date", linearRecords(start, 20), "/api/forecast?symbol=A&start=01/02/2024", http.StatusBadRequest, "ERR_DATETIME"},
		{"end before start", linearRecords(start, 20), "/api/forecast?symbol=A&start=2024-02-01&end=2024-01-01", http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"unknown strategy", linearRecords(start, 20), "/api/forecast?symbol=A&strategies=Prophet", http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"negative horizon", linearRecords(start, 20), "/api/forecast?symbol=A&horizon=-1", http.StatusBadRequest, "ERR_GTE"},
		{"horizon above max", linearRecords(start, 20), "/api/forecast?symbol=A&horizon=400", http.StatusBadRequest, "ERR_BAD_REQUEST"},
		{"no data", nil, "/api/forecast?symbol=NOPE", http.StatusNotFound, "ERR_NOT_FOUND"},
		{"single day", one, "/api/forecast?symbol=ONE&start=2024-01-01&end=2024-01-01", http.StatusUnprocessableEntity, "ERR_UNPROCESSABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(t, tc.recs, nil, nil)
			rec := get(e, tc.target)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			var body envelope[[]errorItem]
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotEmpty(t, body.Data)
			assert.Equal(t, tc.code, body.Data[0].Code)
		})
	}
}

func TestForecastNotFoundMessage(t *testing.T) {
	e := newTestEcho(t, nil, nil, nil)
	rec := get(e, "/api/forecast?symbol=NOPE")
	assert.Contains(t, rec.Body.String(), "No data found for the given stock ticker")
}

func TestForecastRateLimited(t *testing.T) {
	e := newTestEcho(t, linearRecords(start, 20), ratelimit.New(1, 0.001), nil)

	first := get(e, "/api/forecast?symbol=TEST&start=2024-01-01&strategies=")
	require.Equal(t, http.StatusOK, first.Code)
	second := get(e, "/api/forecast?symbol=TEST&start=2024-01-01&strategies=")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Other endpoints have their own bucket.
	table := get(e, "/api/forecast/table?symbol=TEST&start=2024-01-01&strategies=")
	assert.Equal(t, http.StatusOK, table.Code)
}

func TestPricesEndpoint(t *testing.T) {
	e := newTestEcho(t, linearRecords(start, 7), nil, nil)

	rec := get(e, "/api/prices?symbol=test&start=2024-01-01&end=2024-01-07&limit=2")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body envelope[PricesResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Count)
	assert.Equal(t, "2024-01-04", body.Data.Records[0].Date)
	assert.Equal(t, "2024-01-05", body.Data.Records[1].Date)
	require.NotNil(t, body.Data.Records[1].Close)
	assert.Equal(t, 104.0, *body.Data.Records[1].Close)
}

func TestStrategiesEndpoint(t *testing.T) {
	e := newTestEcho(t, nil, nil, []string{models.StrategyAutoRegressive})

	rec := get(e, "/api/strategies")
	require.Equal(t, http.StatusOK, rec.Code)

	var body envelope[StrategiesResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{models.StrategyAutoRegressive, models.StrategyTrendSeasonal, models.StrategySmoothingTrend}, body.Data.Strategies)
	assert.Equal(t, []string{models.StrategyAutoRegressive}, body.Data.Defaults)
}

func TestForecastOmittedHorizonUsesPipelineDefault(t *testing.T) {
	recs := linearRecords(start, 20)
	src := domrepo.PriceSourceFunc(func(context.Context, string, time.Time, time.Time) ([]models.PriceRecord, error) {
		return recs, nil
	})
	reg := forecast.NewDefaultRegistry()
	pipeline := usecase.NewForecastPipeline(src, reg, usecase.NewForecastOrchestrator(reg), usecase.WithDefaultHorizon(7))
	e := echo.New()
	NewForecastEchoHandler(nil, pipeline, usecase.NewPricesUseCase(src), nil, nil, []string{models.StrategySmoothingTrend}).RegisterRoutes(e)

	rec := get(e, "/api/forecast/table?symbol=TEST&start=2024-01-01")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body envelope[TableResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Data.Horizon)
	assert.Len(t, body.Data.Table.Dates, 7)
}
