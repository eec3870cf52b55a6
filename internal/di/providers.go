package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/internal/handler/api"
	internalrepo "StockForecast/internal/repository"
	svcmetrics "StockForecast/internal/service/metrics"
	"StockForecast/internal/service/ratelimit"
	"StockForecast/internal/services/forecast"
	"StockForecast/internal/usecase"
	"StockForecast/pkg/cache"
	pkgch "StockForecast/pkg/clickhouse"
	"StockForecast/pkg/config"
	xhttp "StockForecast/pkg/http"
	applogger "StockForecast/pkg/logger"
	"StockForecast/pkg/metrics"
	"StockForecast/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Services bundles what the CLI presenter needs.
type Services struct {
	Pipeline *usecase.ForecastPipeline
	Prices   *usecase.PricesUseCase
	Defaults DefaultStrategies
	Logger   *applogger.Logger
}

// DefaultStrategies are run when a request does not name any.
type DefaultStrategies []string

// ProvideDefaultStrategies resolves forecast.default_strategies against the
// registry; when unset every registered strategy is a default.
func ProvideDefaultStrategies(cfg *config.Config, reg *forecast.Registry) (DefaultStrategies, error) {
	if len(cfg.Forecast.DefaultStrategies) == 0 {
		return reg.Names(), nil
	}
	out := make(DefaultStrategies, 0, len(cfg.Forecast.DefaultStrategies))
	for _, name := range cfg.Forecast.DefaultStrategies {
		resolved, ok := reg.Resolve(name)
		if !ok {
			return nil, fmt.Errorf("forecast.default_strategies: unknown strategy %q (available: %s)",
				name, strings.Join(reg.Names(), ", "))
		}
		out = append(out, resolved)
	}
	return out, nil
}

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvidePrometheusRegistry creates a registry with runtime collectors.
func ProvidePrometheusRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) domrepo.Metrics {
	return metrics.NewWithRegistry(reg)
}

// ProvideEndpointMetrics creates per-endpoint API metrics.
func ProvideEndpointMetrics(reg *prometheus.Registry) *svcmetrics.Endpoint {
	return svcmetrics.NewEndpoint(reg)
}

// ProvideCache creates the price cache: memory, or memory in front of Redis.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	cc := cfg.Source.Cache
	if !cc.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(cc.MemorySize))
		return mc, func() { _ = mc.Close() }, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx,
		cache.WithRedisAddr(cc.Redis.Addr),
		cache.WithRedisPassword(cc.Redis.Password),
		cache.WithRedisDB(cc.Redis.DB),
		cache.WithRedisPrefix(cc.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis price cache connected", applogger.String("addr", cc.Redis.Addr))

	lc := cache.NewLayeredCache(rc, cc.MemorySize, time.Minute)
	return lc, func() { _ = lc.Close() }, nil
}

// ProvideClickHouseClient creates a ClickHouse client and, if configured, its schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	ch := cfg.Source.ClickHouse
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if ch.InitSchema {
		if err := client.InitSchema(ctx, internalrepo.SchemaStatements(ch.Database, ch.Table)); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvidePriceSource builds the configured source and its decorators:
// breaker around the upstream, cache around the breaker.
func ProvidePriceSource(cfg *config.Config, c cache.Service, l *applogger.Logger) (domrepo.PriceSource, func(), error) {
	var (
		src     domrepo.PriceSource
		cleanup = func() {}
	)

	switch cfg.Source.Type {
	case "clickhouse":
		client, closeCH, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		src = internalrepo.NewCHPriceSource(client, cfg.Source.ClickHouse.Database+"."+cfg.Source.ClickHouse.Table, l)
		cleanup = closeCH
	default:
		y := cfg.Source.Yahoo
		src = internalrepo.NewYahooPriceSource(xhttp.NewClient(xhttp.WithTimeout(y.Timeout)), y.BaseURL, y.UserAgent, l)
	}

	if b := cfg.Source.Breaker; b.Enabled {
		src = internalrepo.NewBreakerPriceSource(src, internalrepo.BreakerSettings{
			Name:                cfg.Source.Type,
			MaxRequests:         b.MaxRequests,
			Interval:            b.Interval,
			Timeout:             b.Timeout,
			ConsecutiveFailures: b.ConsecutiveFailures,
		}, l)
	}
	if cfg.Source.Cache.Enabled {
		src = internalrepo.NewCachedPriceSource(src, c, cfg.Source.Cache.TTL, l)
	}
	return src, cleanup, nil
}

// ProvideRegistry registers the built-in strategies, then routes any strategy
// listed under forecast.remote to the remote service.
func ProvideRegistry(cfg *config.Config) *forecast.Registry {
	reg := forecast.NewDefaultRegistry()
	if cfg.Forecast.Remote.URL == "" {
		return reg
	}
	base := forecast.NewHTTPServiceBase(cfg.Forecast.Remote)
	for _, name := range cfg.Forecast.Remote.Strategies {
		if resolved, ok := reg.Resolve(name); ok {
			name = resolved
		}
		reg.Register(forecast.NewRemoteStrategy(name, base))
	}
	return reg
}

// ProvideOrchestrator creates the strategy orchestrator.
func ProvideOrchestrator(cfg *config.Config, reg *forecast.Registry, m domrepo.Metrics, l *applogger.Logger) *usecase.ForecastOrchestrator {
	return usecase.NewForecastOrchestrator(reg,
		usecase.WithParallel(cfg.Forecast.Parallel),
		usecase.WithStrategyTimeout(cfg.Forecast.StrategyTimeout),
		usecase.WithOrchestratorMetrics(m),
		usecase.WithOrchestratorLogger(l),
	)
}

// ProvidePipeline creates the forecast pipeline.
func ProvidePipeline(
	cfg *config.Config,
	src domrepo.PriceSource,
	reg *forecast.Registry,
	orch *usecase.ForecastOrchestrator,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.ForecastPipeline {
	return usecase.NewForecastPipeline(src, reg, orch,
		usecase.WithDefaultHorizon(cfg.Forecast.Horizon),
		usecase.WithMaxHorizon(cfg.Forecast.MaxHorizon),
		usecase.WithRunTimeout(cfg.Forecast.RunTimeout),
		usecase.WithPipelineMetrics(m),
		usecase.WithPipelineLogger(l),
	)
}

// ProvidePricesUseCase creates the raw prices use case.
func ProvidePricesUseCase(src domrepo.PriceSource) *usecase.PricesUseCase {
	return usecase.NewPricesUseCase(src)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	rl := cfg.Server.RateLimit
	if !rl.Enabled {
		return nil
	}
	return ratelimit.New(rl.Capacity, rl.RefillPerSec)
}

// ProvideHandler creates the HTTP presenter.
func ProvideHandler(
	pipeline *usecase.ForecastPipeline,
	prices *usecase.PricesUseCase,
	rl *ratelimit.Limiter,
	em *svcmetrics.Endpoint,
	defaults DefaultStrategies,
	l *applogger.Logger,
) xhttp.Handler {
	return api.NewForecastEchoHandler(l, pipeline, prices, rl, em, defaults)
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, reg *prometheus.Registry, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, reg, reg))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, srv *xhttp.Server, l *applogger.Logger) *server.App {
	return server.New(cfg, srv, l)
}
