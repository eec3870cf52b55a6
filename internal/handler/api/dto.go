package api

import (
	"time"

	"StockForecast/internal/domain/models"
	"StockForecast/internal/usecase"
	"StockForecast/pkg/util"
)

type ChartColumnDTO struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type ForecastColumnDTO struct {
	Strategy string    `json:"strategy"`
	Values   []float64 `json:"values"`
}

type WarningDTO struct {
	Strategy string `json:"strategy"`
	Stage    string `json:"stage"`
	Message  string `json:"message"`
}

type TableDTO struct {
	Dates   []string            `json:"dates"`
	Columns []ForecastColumnDTO `json:"columns"`
}

type ChartDTO struct {
	Dates   []string         `json:"dates"`
	Columns []ChartColumnDTO `json:"columns"`
}

// ForecastResponse is the chart view: history plus forecast columns on one date axis.
type ForecastResponse struct {
	Symbol     string       `json:"symbol"`
	Start      string       `json:"start"`
	End        string       `json:"end"`
	Horizon    int          `json:"horizon"`
	Strategies []string     `json:"strategies"`
	Chart      ChartDTO     `json:"chart"`
	Table      TableDTO     `json:"table"`
	Warnings   []WarningDTO `json:"warnings,omitempty"`
}

// TableResponse is the forecast-only view.
type TableResponse struct {
	Symbol   string       `json:"symbol"`
	Horizon  int          `json:"horizon"`
	Table    TableDTO     `json:"table"`
	Warnings []WarningDTO `json:"warnings,omitempty"`
}

type PriceDTO struct {
	Date   string   `json:"date"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *float64 `json:"volume"`
}

type PricesResponse struct {
	Symbol  string     `json:"symbol"`
	Start   string     `json:"start"`
	End     string     `json:"end"`
	Count   int        `json:"count"`
	Records []PriceDTO `json:"records"`
}

type StrategiesResponse struct {
	Strategies []string `json:"strategies"`
	Defaults   []string `json:"defaults"`
}

// NewForecastResponse renders a finished run as the chart view.
func NewForecastResponse(run *models.ForecastRun) ForecastResponse {
	return ForecastResponse{
		Symbol:     run.Symbol,
		Start:      run.Start.Format(util.DateLayout),
		End:        run.End.Format(util.DateLayout),
		Horizon:    run.Horizon,
		Strategies: run.Strategies,
		Chart:      toChartDTO(run.Chart),
		Table:      toTableDTO(run.Table),
		Warnings:   toWarningDTOs(run.Warnings),
	}
}

func NewTableResponse(run *models.ForecastRun) TableResponse {
	return TableResponse{
		Symbol:   run.Symbol,
		Horizon:  run.Horizon,
		Table:    toTableDTO(run.Table),
		Warnings: toWarningDTOs(run.Warnings),
	}
}

func NewPricesResponse(res *usecase.GetPricesResult) PricesResponse {
	return PricesResponse{
		Symbol:  res.Symbol,
		Start:   res.From.Format(util.DateLayout),
		End:     res.To.Format(util.DateLayout),
		Count:   res.Count,
		Records: toPriceDTOs(res.Records),
	}
}

func formatDates(ds []time.Time) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Format(util.DateLayout)
	}
	return out
}

// finite maps NaN and infinities to null.
func finite(v float64) *float64 {
	if !models.IsFinite(v) {
		return nil
	}
	return &v
}

func toTableDTO(t models.ForecastTable) TableDTO {
	cols := make([]ForecastColumnDTO, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = ForecastColumnDTO{Strategy: c.Strategy, Values: c.Values}
	}
	return TableDTO{Dates: formatDates(t.Dates), Columns: cols}
}

func toChartDTO(c models.ChartDataset) ChartDTO {
	cols := make([]ChartColumnDTO, len(c.Columns))
	for i, col := range c.Columns {
		cols[i] = ChartColumnDTO{Name: col.Name, Values: col.Values}
	}
	return ChartDTO{Dates: formatDates(c.Dates), Columns: cols}
}

func toWarningDTOs(ws []models.StrategyWarning) []WarningDTO {
	if len(ws) == 0 {
		return nil
	}
	out := make([]WarningDTO, len(ws))
	for i, w := range ws {
		out[i] = WarningDTO{Strategy: w.Strategy, Stage: w.Stage.String(), Message: w.Err.Error()}
	}
	return out
}

func toPriceDTOs(recs []models.PriceRecord) []PriceDTO {
	out := make([]PriceDTO, len(recs))
	for i, r := range recs {
		out[i] = PriceDTO{
			Date:   r.Date.Format(util.DateLayout),
			Open:   finite(r.Open),
			High:   finite(r.High),
			Low:    finite(r.Low),
			Close:  finite(r.Close),
			Volume: finite(r.Volume),
		}
	}
	return out
}
