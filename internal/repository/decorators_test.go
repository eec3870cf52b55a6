package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/pkg/cache"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingSource(calls *int32, recs []models.PriceRecord, err error) domrepo.PriceSource {
	return domrepo.PriceSourceFunc(func(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
		atomic.AddInt32(calls, 1)
		return recs, err
	})
}

func sampleRecords() []models.PriceRecord {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []models.PriceRecord{
		{Date: d, Symbol: "MSFT", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Date: d.AddDate(0, 0, 1), Symbol: "MSFT", Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
	}
}

func TestCachedPriceSourceHit(t *testing.T) {
	var calls int32
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()

	src := NewCachedPriceSource(countingSource(&calls, sampleRecords(), nil), mc, time.Minute, nil)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	first, err := src.GetDailyPrices(context.Background(), "msft", from, to)
	require.NoError(t, err)
	second, err := src.GetDailyPrices(context.Background(), "MSFT", from, to)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, first, second)
}

func TestCachedPriceSourceSkipsEmptyAndErrors(t *testing.T) {
	var calls int32
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()

	src := NewCachedPriceSource(countingSource(&calls, nil, nil), mc, time.Minute, nil)
	for i := 0; i < 2; i++ {
		recs, err := src.GetDailyPrices(context.Background(), "X", time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Empty(t, recs)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "empty results are not cached")

	boom := errors.New("boom")
	failing := NewCachedPriceSource(countingSource(&calls, nil, boom), mc, time.Minute, nil)
	_, err := failing.GetDailyPrices(context.Background(), "Y", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, mc.Len())
}

func TestPricesKey(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "prices:AAPL:2020-01-01:-", pricesKey("aapl", from, time.Time{}))
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	boom := errors.New("connection refused")
	src := NewBreakerPriceSource(countingSource(&calls, nil, boom), BreakerSettings{
		Name:                "test",
		MaxRequests:         1,
		Timeout:             time.Hour,
		ConsecutiveFailures: 3,
	}, nil)

	for i := 0; i < 3; i++ {
		_, err := src.GetDailyPrices(context.Background(), "A", time.Time{}, time.Time{})
		assert.ErrorIs(t, err, boom)
	}
	assert.Equal(t, gobreaker.StateOpen, src.State())

	_, err := src.GetDailyPrices(context.Background(), "A", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "open breaker does not call through")
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	var calls int32
	src := NewBreakerPriceSource(countingSource(&calls, nil, context.Canceled), BreakerSettings{
		Name:                "cancel",
		ConsecutiveFailures: 1,
		Timeout:             time.Hour,
	}, nil)

	_, err := src.GetDailyPrices(context.Background(), "A", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, src.State())
}

func TestCHQuery(t *testing.T) {
	s := &CHPriceSource{table: "daily_prices"}
	from := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)

	q, args := s.query(from, time.Time{})
	assert.Equal(t, "SELECT day, symbol, open, high, low, close, volume FROM daily_prices FINAL WHERE symbol = ? AND day >= ? ORDER BY day ASC", q)
	require.Len(t, args, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), args[0])

	stmts := SchemaStatements("stockforecast", "daily_prices")
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1], "stockforecast.daily_prices")
}
