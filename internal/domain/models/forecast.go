package models

import "time"

// Built-in strategy identifiers.
const (
	StrategyAutoRegressive = "AutoRegressive"
	StrategyTrendSeasonal  = "TrendSeasonal"
	StrategySmoothingTrend = "SmoothingTrend"
)

// HistoryColumn is the chart column holding actual closes.
const HistoryColumn = "Close"

// DefaultHorizon is the forecast length used when none is requested.
const DefaultHorizon = 30

// ForecastSeries is one strategy's output: Horizon consecutive days starting the
// day after the history ends. A NaN value marks a day the strategy could not resolve.
type ForecastSeries struct {
	Strategy string
	Dates    []time.Time
	Values   []float64
}

func (f ForecastSeries) Len() int { return len(f.Dates) }

// ForecastColumn is one strategy's values inside a ForecastTable.
type ForecastColumn struct {
	Strategy string
	Values   []float64
}

// ForecastTable holds aligned forecast columns in request order. Every column has a
// finite value at every date.
type ForecastTable struct {
	Dates   []time.Time
	Columns []ForecastColumn
}

// IsEmpty reports whether no strategy produced a usable forecast.
func (t ForecastTable) IsEmpty() bool { return len(t.Columns) == 0 || len(t.Dates) == 0 }

// Strategies returns the column names in order.
func (t ForecastTable) Strategies() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Strategy)
	}
	return out
}

// Series returns the column for strategy as a ForecastSeries.
func (t ForecastTable) Series(strategy string) (ForecastSeries, bool) {
	for _, c := range t.Columns {
		if c.Strategy == strategy {
			return ForecastSeries{Strategy: c.Strategy, Dates: t.Dates, Values: c.Values}, true
		}
	}
	return ForecastSeries{}, false
}

// ChartColumn is a named column of a ChartDataset. A nil entry is an unset cell.
type ChartColumn struct {
	Name   string
	Values []*float64
}

// ChartDataset is history plus forecasts reindexed onto the union of their dates.
type ChartDataset struct {
	Dates   []time.Time
	Columns []ChartColumn
}

// StrategyWarning reports one strategy that did not contribute to the table.
type StrategyWarning struct {
	Strategy string
	Stage    Stage
	Err      error
}

func (w StrategyWarning) Error() string {
	return w.Strategy + ": " + w.Err.Error()
}

// ForecastRun is the outcome of one successful pipeline run.
type ForecastRun struct {
	Symbol     string
	Start      time.Time
	End        time.Time
	Horizon    int
	Strategies []string
	Stage      Stage
	Records    []PriceRecord // chronological, pre-normalization
	History    PriceSeries
	Table      ForecastTable
	Chart      ChartDataset
	Warnings   []StrategyWarning
}
