package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/pkg/cache"
	applogger "StockForecast/pkg/logger"
	"StockForecast/pkg/util"
)

// CachedPriceSource memoises another source. Cache failures never fail a fetch.
type CachedPriceSource struct {
	next  domrepo.PriceSource
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

var _ domrepo.PriceSource = (*CachedPriceSource)(nil)

func NewCachedPriceSource(next domrepo.PriceSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedPriceSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedPriceSource{next: next, cache: c, ttl: ttl, l: l}
}

func pricesKey(symbol string, from, to time.Time) string {
	return cache.GenerateKeyWithParams("prices", strings.ToUpper(symbol), fmtDay(from), fmtDay(to))
}

func fmtDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(util.DateLayout)
}

func (s *CachedPriceSource) GetDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
	key := pricesKey(symbol, from, to)

	recs, err := cache.GetJSON[[]models.PriceRecord](ctx, s.cache, key)
	switch {
	case err == nil:
		s.l.Debug("price cache hit", applogger.String("key", key), applogger.Int("rows", len(recs)))
		return recs, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.l.Warn("price cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	recs, err = s.next.GetDailyPrices(ctx, symbol, from, to)
	if err != nil || len(recs) == 0 {
		return recs, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, recs, s.ttl); err != nil {
		s.l.Warn("price cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return recs, nil
}
