package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"StockForecast/internal/domain/models"
)

// Normalize turns raw records into a gap-free daily close series.
//
// Records outside [from, to] are discarded (a zero bound is open). Records are
// deduplicated by calendar day, the last one winning. The output spans every
// day from the first to the last finite close; days without a close are filled
// by linear interpolation over time between their nearest known neighbours.
//
// It fails with models.ErrEmptyInput when no record falls in range and with
// models.ErrInsufficientData when fewer than two distinct days carry a close.
func Normalize(records []models.PriceRecord, from, to time.Time) (models.PriceSeries, error) {
	if len(records) == 0 {
		return models.PriceSeries{}, models.ErrEmptyInput
	}

	closes := make(map[time.Time]float64, len(records))
	for _, r := range records {
		d := models.Day(r.Date)
		if !from.IsZero() && d.Before(models.Day(from)) {
			continue
		}
		if !to.IsZero() && d.After(models.Day(to)) {
			continue
		}
		closes[d] = r.Close
	}
	if len(closes) == 0 {
		return models.PriceSeries{}, models.ErrEmptyInput
	}

	known := make([]time.Time, 0, len(closes))
	for d, v := range closes {
		if models.IsFinite(v) {
			known = append(known, d)
		}
	}
	if len(known) < 2 {
		return models.PriceSeries{}, fmt.Errorf("%w: %d known close(s), need at least 2", models.ErrInsufficientData, len(known))
	}
	sort.Slice(known, func(i, j int) bool { return known[i].Before(known[j]) })

	first, last := known[0], known[len(known)-1]
	dates := models.DailyRange(first, models.DaysBetween(first, last)+1)
	values := make([]float64, len(dates))
	for i, d := range dates {
		v, ok := closes[d]
		if !ok || !models.IsFinite(v) {
			v = math.NaN()
		}
		values[i] = v
	}
	FillGaps(values)

	return models.PriceSeries{Dates: dates, Values: values}, nil
}

// SortRecords returns a chronological copy of records.
func SortRecords(records []models.PriceRecord) []models.PriceRecord {
	out := make([]models.PriceRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
