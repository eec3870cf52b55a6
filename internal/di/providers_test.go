package di

import (
	"context"
	"testing"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/internal/repository"
	"StockForecast/internal/services/forecast"
	"StockForecast/internal/usecase"
	"StockForecast/pkg/cache"
	"StockForecast/pkg/config"
	applogger "StockForecast/pkg/logger"
	"StockForecast/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestProvideRegistryRoutesRemoteStrategies(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Forecast.Remote.URL = "http://forecaster.local"
	cfg.Forecast.Remote.Strategies = []string{"trendseasonal"}

	reg := ProvideRegistry(cfg)
	assert.Equal(t, []string{"AutoRegressive", "TrendSeasonal", "SmoothingTrend"}, reg.Names())

	s, ok := reg.Get("TrendSeasonal")
	require.True(t, ok)
	assert.IsType(t, &forecast.RemoteStrategy{}, s)

	s, ok = reg.Get("AutoRegressive")
	require.True(t, ok)
	assert.IsType(t, &forecast.AutoRegressive{}, s)
}

func TestProvideRegistryWithoutRemote(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Forecast.Remote.Strategies = []string{"TrendSeasonal"}

	s, ok := ProvideRegistry(cfg).Get("TrendSeasonal")
	require.True(t, ok)
	assert.IsType(t, &forecast.TrendSeasonal{}, s)
}

func TestProvidePriceSourceDecorators(t *testing.T) {
	cfg := defaultConfig(t)
	c, closeCache, err := ProvideCache(cfg, applogger.Nop())
	require.NoError(t, err)
	defer closeCache()
	assert.IsType(t, &cache.MemoryCache{}, c)

	src, cleanup, err := ProvidePriceSource(cfg, c, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &repository.CachedPriceSource{}, src)

	cfg.Source.Cache.Enabled = false
	src, _, err = ProvidePriceSource(cfg, c, applogger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &repository.BreakerPriceSource{}, src)

	cfg.Source.Breaker.Enabled = false
	src, _, err = ProvidePriceSource(cfg, c, applogger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &repository.YahooPriceSource{}, src)
}

func TestProvideRateLimiterDisabled(t *testing.T) {
	cfg := defaultConfig(t)
	assert.NotNil(t, ProvideRateLimiter(cfg))

	cfg.Server.RateLimit.Enabled = false
	assert.Nil(t, ProvideRateLimiter(cfg))
}

func TestProvidePipelineUsesConfiguredHorizon(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Forecast.Horizon = 14
	cfg.Forecast.MaxHorizon = 20

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	src := domrepo.PriceSourceFunc(func(context.Context, string, time.Time, time.Time) ([]models.PriceRecord, error) {
		out := make([]models.PriceRecord, 60)
		for i := range out {
			out[i] = models.PriceRecord{Date: start.AddDate(0, 0, i), Close: 10 + 0.5*float64(i)}
		}
		return out, nil
	})
	reg := ProvideRegistry(cfg)
	orch := ProvideOrchestrator(cfg, reg, metrics.Nop{}, applogger.Nop())
	p := ProvidePipeline(cfg, src, reg, orch, metrics.Nop{}, applogger.Nop())

	run, err := p.Run(context.Background(), usecase.ForecastParams{
		Symbol:     "CFG",
		Start:      start,
		End:        start.AddDate(0, 0, 59),
		Strategies: []string{models.StrategySmoothingTrend},
	})
	require.NoError(t, err)
	assert.Equal(t, 14, run.Horizon)
	assert.Len(t, run.Table.Dates, 14)

	_, err = p.Run(context.Background(), usecase.ForecastParams{Symbol: "CFG", Start: start, Horizon: 21})
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestProvideDefaultStrategies(t *testing.T) {
	cfg := defaultConfig(t)
	reg := ProvideRegistry(cfg)

	defaults, err := ProvideDefaultStrategies(cfg, reg)
	require.NoError(t, err)
	assert.Equal(t, DefaultStrategies(reg.Names()), defaults)

	cfg.Forecast.DefaultStrategies = []string{"smoothingtrend", "AutoRegressive"}
	defaults, err = ProvideDefaultStrategies(cfg, reg)
	require.NoError(t, err)
	assert.Equal(t, DefaultStrategies{models.StrategySmoothingTrend, models.StrategyAutoRegressive}, defaults)

	cfg.Forecast.DefaultStrategies = []string{"Prophet"}
	_, err = ProvideDefaultStrategies(cfg, reg)
	assert.ErrorContains(t, err, `unknown strategy "Prophet"`)
}
