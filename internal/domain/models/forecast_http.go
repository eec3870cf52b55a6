package models

// Requests for forecast HTTP endpoints. Dates are YYYY-MM-DD; strategies is a
// comma-separated list of strategy identifiers.

type ForecastRequest struct {
	Symbol     string `query:"symbol" json:"symbol" validate:"required,ticker"`
	Start      string `query:"start" json:"start" default:"2020-01-01" validate:"datetime=2006-01-02"`
	End        string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Horizon    int    `query:"horizon" json:"horizon" validate:"gte=0"` // 0: configured default; upper bound checked by the pipeline
	Strategies string `query:"strategies" json:"strategies" validate:"max=256"`
}

type PricesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,ticker"`
	Start  string `query:"start" json:"start" default:"2020-01-01" validate:"datetime=2006-01-02"`
	End    string `query:"end" json:"end" validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=50000"`
}
