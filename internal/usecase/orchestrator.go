package usecase

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	domsvc "StockForecast/internal/domain/service"
	applogger "StockForecast/pkg/logger"
	"StockForecast/pkg/metrics"
)

// StrategyLookup finds a strategy by its registered name.
type StrategyLookup interface {
	Get(name string) (domsvc.ForecastStrategy, bool)
}

// ForecastOrchestrator runs the requested strategies against one series and
// aligns their outputs into a ForecastTable. A failing strategy only costs its
// own column.
type ForecastOrchestrator struct {
	strategies      StrategyLookup
	parallel        bool
	strategyTimeout time.Duration
	metrics         domrepo.Metrics
	l               *applogger.Logger
}

type OrchestratorOption func(*ForecastOrchestrator)

// WithParallel runs strategies concurrently.
func WithParallel(on bool) OrchestratorOption {
	return func(o *ForecastOrchestrator) { o.parallel = on }
}

// WithStrategyTimeout bounds each strategy call. Zero means no bound.
func WithStrategyTimeout(d time.Duration) OrchestratorOption {
	return func(o *ForecastOrchestrator) { o.strategyTimeout = d }
}

func WithOrchestratorMetrics(m domrepo.Metrics) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

func WithOrchestratorLogger(l *applogger.Logger) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if l != nil {
			o.l = l
		}
	}
}

func NewForecastOrchestrator(strategies StrategyLookup, opts ...OrchestratorOption) *ForecastOrchestrator {
	o := &ForecastOrchestrator{
		strategies: strategies,
		parallel:   true,
		metrics:    metrics.Nop{},
		l:          applogger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type strategyResult struct {
	idx    int
	name   string
	series models.ForecastSeries
	err    error
}

// Run forecasts series with every requested strategy. Duplicate names are
// collapsed, keeping the first occurrence. The returned table keeps request
// order and contains only dates where every surviving strategy has a value.
// Run itself never fails: each strategy that does not contribute a column
// yields one warning.
func (o *ForecastOrchestrator) Run(ctx context.Context, series models.PriceSeries, horizon int, requested []string) (models.ForecastTable, []models.StrategyWarning) {
	names := dedupe(requested)
	if len(names) == 0 {
		return models.ForecastTable{}, nil
	}

	results := make([]strategyResult, len(names))
	if o.parallel && len(names) > 1 {
		ch := make(chan strategyResult, len(names))
		var wg sync.WaitGroup
		for i, name := range names {
			wg.Add(1)
			go func(i int, name string) {
				defer wg.Done()
				ch <- o.runOne(ctx, i, name, series, horizon)
			}(i, name)
		}
		go func() { wg.Wait(); close(ch) }()
		for r := range ch {
			results[r.idx] = r
		}
	} else {
		for i, name := range names {
			results[i] = o.runOne(ctx, i, name, series, horizon)
		}
	}

	var (
		ok       []models.ForecastSeries
		warnings []models.StrategyWarning
	)
	for _, r := range results {
		if r.err != nil {
			o.l.Warn("strategy failed",
				applogger.String("strategy", r.name),
				applogger.Error(r.err),
			)
			warnings = append(warnings, models.StrategyWarning{
				Strategy: r.name,
				Stage:    models.StageForecasting,
				Err:      r.err,
			})
			continue
		}
		ok = append(ok, r.series)
	}

	table := Align(ok)
	if table.IsEmpty() && len(ok) > 0 {
		o.l.Warn("forecast alignment left no common dates",
			applogger.Strings("strategies", names),
		)
	}
	return table, warnings
}

func (o *ForecastOrchestrator) runOne(ctx context.Context, idx int, name string, series models.PriceSeries, horizon int) (res strategyResult) {
	res = strategyResult{idx: idx, name: name}
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			o.l.Error("strategy panicked",
				applogger.String("strategy", name),
				applogger.String("stack", string(debug.Stack())),
			)
			res.series = models.ForecastSeries{}
			res.err = fmt.Errorf("%w: panic: %v", models.ErrModelFit, p)
		}
		outcome := domrepo.OutcomeOK
		if res.err != nil {
			outcome = domrepo.OutcomeFailed
		}
		o.metrics.RecordStrategy(name, outcome, time.Since(start).Seconds())
	}()

	s, found := o.strategies.Get(name)
	if !found {
		res.err = fmt.Errorf("%w: %q", models.ErrUnknownStrategy, name)
		return res
	}

	if o.strategyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.strategyTimeout)
		defer cancel()
	}

	fs, err := s.Forecast(ctx, series, horizon)
	if err != nil {
		if !errors.Is(err, models.ErrModelFit) {
			err = fmt.Errorf("%w: %w", models.ErrModelFit, err)
		}
		res.err = err
		return res
	}
	if err := checkShape(fs, series, horizon); err != nil {
		res.err = err
		return res
	}

	fs.Strategy = name
	res.series = fs
	o.l.Debug("strategy ok",
		applogger.String("strategy", name),
		applogger.Int("horizon", horizon),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return res
}

// checkShape rejects output that is not horizon consecutive days starting the
// day after the series ends.
func checkShape(fs models.ForecastSeries, series models.PriceSeries, horizon int) error {
	if len(fs.Dates) != horizon || len(fs.Values) != horizon {
		return fmt.Errorf("%w: expected %d points, got %d dates and %d values",
			models.ErrModelFit, horizon, len(fs.Dates), len(fs.Values))
	}
	next := models.Day(series.LastDate()).AddDate(0, 0, 1)
	for i, d := range fs.Dates {
		if !models.Day(d).Equal(next.AddDate(0, 0, i)) {
			return fmt.Errorf("%w: forecast date %d is %s, expected %s",
				models.ErrModelFit, i, d.Format("2006-01-02"), next.AddDate(0, 0, i).Format("2006-01-02"))
		}
	}
	return nil
}

// Align keeps the dates at which every series has a finite value. Column order
// follows the input; dates follow the first series.
func Align(series []models.ForecastSeries) models.ForecastTable {
	if len(series) == 0 {
		return models.ForecastTable{}
	}

	lookup := make([]map[time.Time]float64, len(series))
	for i, s := range series {
		m := make(map[time.Time]float64, len(s.Dates))
		for j, d := range s.Dates {
			if v := s.Values[j]; models.IsFinite(v) {
				m[models.Day(d)] = v
			}
		}
		lookup[i] = m
	}

	var dates []time.Time
	for _, d := range series[0].Dates {
		d = models.Day(d)
		keep := true
		for _, m := range lookup {
			if _, ok := m[d]; !ok {
				keep = false
				break
			}
		}
		if keep {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return models.ForecastTable{}
	}

	cols := make([]models.ForecastColumn, len(series))
	for i, s := range series {
		vals := make([]float64, len(dates))
		for j, d := range dates {
			vals[j] = lookup[i][d]
		}
		cols[i] = models.ForecastColumn{Strategy: s.Strategy, Values: vals}
	}
	return models.ForecastTable{Dates: dates, Columns: cols}
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
