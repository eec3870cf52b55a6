package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	"StockForecast/internal/services/series"
	applogger "StockForecast/pkg/logger"
	"StockForecast/pkg/metrics"
)

// DefaultStart is the range start used when a request leaves it empty.
var DefaultStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// StrategyCatalog resolves user-supplied strategy names.
type StrategyCatalog interface {
	StrategyLookup
	Resolve(name string) (string, bool)
	Names() []string
}

// ForecastParams describes one pipeline run.
type ForecastParams struct {
	Symbol     string
	Start      time.Time // zero means DefaultStart
	End        time.Time // zero means today
	Horizon    int       // zero means the pipeline's default horizon
	Strategies []string  // empty means no forecast
}

// ForecastPipeline drives one run through fetch, normalize, forecast and merge.
type ForecastPipeline struct {
	source     domrepo.PriceSource
	catalog    StrategyCatalog
	orch       *ForecastOrchestrator
	horizon    int
	maxHorizon int
	runTimeout time.Duration
	metrics    domrepo.Metrics
	l          *applogger.Logger
	now        func() time.Time
	onStage    func(models.Stage)
}

type PipelineOption func(*ForecastPipeline)

// WithDefaultHorizon sets the horizon used when a run leaves it zero.
func WithDefaultHorizon(n int) PipelineOption {
	return func(p *ForecastPipeline) {
		if n > 0 {
			p.horizon = n
		}
	}
}

func WithMaxHorizon(n int) PipelineOption {
	return func(p *ForecastPipeline) { p.maxHorizon = n }
}

// WithRunTimeout bounds a whole run. Zero means no bound.
func WithRunTimeout(d time.Duration) PipelineOption {
	return func(p *ForecastPipeline) { p.runTimeout = d }
}

func WithPipelineMetrics(m domrepo.Metrics) PipelineOption {
	return func(p *ForecastPipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

func WithPipelineLogger(l *applogger.Logger) PipelineOption {
	return func(p *ForecastPipeline) {
		if l != nil {
			p.l = l
		}
	}
}

// WithStageHook is called on every stage transition, Failed included.
func WithStageHook(fn func(models.Stage)) PipelineOption {
	return func(p *ForecastPipeline) { p.onStage = fn }
}

func NewForecastPipeline(source domrepo.PriceSource, catalog StrategyCatalog, orch *ForecastOrchestrator, opts ...PipelineOption) *ForecastPipeline {
	p := &ForecastPipeline{
		source:     source,
		catalog:    catalog,
		orch:       orch,
		horizon:    models.DefaultHorizon,
		maxHorizon: 365,
		metrics:    metrics.Nop{},
		l:          applogger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultHorizon is the horizon a zero-horizon run gets.
func (p *ForecastPipeline) DefaultHorizon() int { return p.horizon }

// Strategies lists the names accepted by Run.
func (p *ForecastPipeline) Strategies() []string {
	return p.catalog.Names()
}

// Validate applies defaults and checks params. Strategy names are resolved to
// their registered spelling and deduplicated in request order.
func (p *ForecastPipeline) Validate(params ForecastParams) (ForecastParams, error) {
	params.Symbol = strings.ToUpper(strings.TrimSpace(params.Symbol))
	if params.Symbol == "" {
		return params, fmt.Errorf("%w: please enter a stock ticker", models.ErrInvalidParams)
	}

	if params.Start.IsZero() {
		params.Start = DefaultStart
	}
	if params.End.IsZero() {
		params.End = p.now()
	}
	params.Start, params.End = models.Day(params.Start), models.Day(params.End)
	if params.End.Before(params.Start) {
		return params, fmt.Errorf("%w: end date %s precedes start date %s", models.ErrInvalidParams,
			params.End.Format("2006-01-02"), params.Start.Format("2006-01-02"))
	}

	if params.Horizon == 0 {
		params.Horizon = p.horizon
	}
	if params.Horizon < 0 || (p.maxHorizon > 0 && params.Horizon > p.maxHorizon) {
		return params, fmt.Errorf("%w: horizon must be between 1 and %d, got %d", models.ErrInvalidParams, p.maxHorizon, params.Horizon)
	}

	resolved := make([]string, 0, len(params.Strategies))
	seen := make(map[string]struct{}, len(params.Strategies))
	for _, raw := range params.Strategies {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		name, ok := p.catalog.Resolve(raw)
		if !ok {
			return params, fmt.Errorf("%w: %w: %q (available: %s)", models.ErrInvalidParams, models.ErrUnknownStrategy,
				raw, strings.Join(p.catalog.Names(), ", "))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		resolved = append(resolved, name)
	}
	params.Strategies = resolved
	return params, nil
}

// Fetch runs only the fetching stage and returns the records in chronological order.
func (p *ForecastPipeline) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
	records, err := p.source.GetDailyPrices(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEmptyInput, err)
	}
	if len(records) == 0 {
		return nil, models.ErrEmptyInput
	}
	return series.SortRecords(records), nil
}

// Run executes the pipeline. On failure the error is a *models.StageError naming
// the stage that failed; strategy failures are reported as run warnings instead.
func (p *ForecastPipeline) Run(ctx context.Context, params ForecastParams) (*models.ForecastRun, error) {
	params, verr := p.Validate(params)

	l := p.l.With(
		applogger.String("symbol", params.Symbol),
		applogger.Date("start", params.Start),
		applogger.Date("end", params.End),
	)
	run := &models.ForecastRun{
		Symbol:     params.Symbol,
		Start:      params.Start,
		End:        params.End,
		Horizon:    params.Horizon,
		Strategies: params.Strategies,
		Stage:      models.StageIdle,
	}
	began := time.Now()

	fail := func(stage models.Stage, err error) (*models.ForecastRun, error) {
		p.enter(run, models.StageFailed, l)
		p.metrics.RecordRun(domrepo.OutcomeFailed)
		kind := stage.String()
		if stage == models.StageIdle {
			kind = "validation"
		}
		p.metrics.RecordError(kind)
		l.Error("forecast run failed",
			applogger.String("stage", stage.String()),
			applogger.Error(err),
		)
		return nil, &models.StageError{Stage: stage, Err: err}
	}

	if verr != nil {
		return fail(models.StageIdle, verr)
	}

	if p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}

	p.enter(run, models.StageFetching, l)
	t := time.Now()
	records, err := p.Fetch(ctx, params.Symbol, params.Start, params.End)
	p.metrics.RecordStage(models.StageFetching.String(), time.Since(t).Seconds())
	if err != nil {
		return fail(models.StageFetching, err)
	}
	run.Records = records

	p.enter(run, models.StageNormalizing, l)
	t = time.Now()
	history, err := series.Normalize(records, params.Start, params.End)
	p.metrics.RecordStage(models.StageNormalizing.String(), time.Since(t).Seconds())
	if err != nil {
		return fail(models.StageNormalizing, err)
	}
	run.History = history

	p.enter(run, models.StageForecasting, l)
	t = time.Now()
	run.Table, run.Warnings = p.orch.Run(ctx, history, params.Horizon, params.Strategies)
	p.metrics.RecordStage(models.StageForecasting.String(), time.Since(t).Seconds())

	// A run abandoned by its deadline is a failure, not a set of warnings.
	if err := ctx.Err(); err != nil && errors.Is(err, context.DeadlineExceeded) && p.runTimeout > 0 {
		return fail(models.StageForecasting, fmt.Errorf("run exceeded %s: %w", p.runTimeout, err))
	}

	p.enter(run, models.StageMerging, l)
	t = time.Now()
	run.Chart = series.Merge(history, run.Table)
	p.metrics.RecordStage(models.StageMerging.String(), time.Since(t).Seconds())

	p.enter(run, models.StageReady, l)
	outcome := domrepo.OutcomeOK
	if len(params.Strategies) > 0 && run.Table.IsEmpty() {
		outcome = domrepo.OutcomeEmpty
	}
	p.metrics.RecordRun(outcome)

	l.Info("forecast run complete",
		applogger.Int("records", len(records)),
		applogger.Int("history_days", history.Len()),
		applogger.Strings("strategies", run.Table.Strategies()),
		applogger.Int("forecast_days", len(run.Table.Dates)),
		applogger.Int("warnings", len(run.Warnings)),
		applogger.Duration("duration_ms", time.Since(began)),
	)
	return run, nil
}

func (p *ForecastPipeline) enter(run *models.ForecastRun, s models.Stage, l *applogger.Logger) {
	run.Stage = s
	l.Debug("forecast stage", applogger.String("stage", s.String()))
	if p.onStage != nil {
		p.onStage(s)
	}
}
