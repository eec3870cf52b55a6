package models

import (
	"math"
	"time"
)

// PriceRecord represents one daily OHLCV row as returned by a price source.
type PriceRecord struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is a gap-free daily close series. Dates[i] and Values[i] describe
// the same calendar day; dates strictly increase by one day.
type PriceSeries struct {
	Dates  []time.Time
	Values []float64
}

func (s PriceSeries) Len() int { return len(s.Dates) }

// FirstDate returns the zero time for an empty series.
func (s PriceSeries) FirstDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

// LastDate returns the zero time for an empty series.
func (s PriceSeries) LastDate() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// DailyRange returns n consecutive days starting at from.
func DailyRange(from time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	d := Day(from)
	for i := range out {
		out[i] = d.AddDate(0, 0, i)
	}
	return out
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
