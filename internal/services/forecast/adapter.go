package forecast

import (
	"fmt"
	"math"
	"time"

	"StockForecast/internal/domain/models"
	"StockForecast/internal/services/series"
)

// FramePoint is one row of a (ds, yhat) prediction frame.
type FramePoint struct {
	DS   time.Time
	YHat float64
}

// Each native output shape gets its own adapter below. All of them land values
// on the canonical grid: horizon consecutive days starting the day after last.
// Interior holes are interpolated like the normalizer does; holes at the edges
// stay NaN and are trimmed later by table alignment.

// fromSteps adapts a per-step slice where steps[i] is the forecast i+1 days out.
func fromSteps(name string, last time.Time, steps []float64, horizon int) (models.ForecastSeries, error) {
	values := emptyGrid(horizon)
	for i := 0; i < len(steps) && i < horizon; i++ {
		values[i] = steps[i]
	}
	return finish(name, last, values)
}

// fromStepMap adapts a forecast keyed by step number (1-based).
func fromStepMap(name string, last time.Time, byStep map[int]float64, horizon int) (models.ForecastSeries, error) {
	values := emptyGrid(horizon)
	for step, v := range byStep {
		if step >= 1 && step <= horizon {
			values[step-1] = v
		}
	}
	return finish(name, last, values)
}

// fromFrame adapts a frame that may cover history as well as the future. Only
// rows dated strictly after last and within the horizon are kept.
func fromFrame(name string, last time.Time, frame []FramePoint, horizon int) (models.ForecastSeries, error) {
	values := emptyGrid(horizon)
	for _, p := range frame {
		k := models.DaysBetween(last, p.DS)
		if k >= 1 && k <= horizon {
			values[k-1] = p.YHat
		}
	}
	return finish(name, last, values)
}

func emptyGrid(horizon int) []float64 {
	values := make([]float64, horizon)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

func finish(name string, last time.Time, values []float64) (models.ForecastSeries, error) {
	for i, v := range values {
		if !models.IsFinite(v) {
			values[i] = math.NaN()
		}
	}
	series.FillGaps(values)
	if series.CountFinite(values) == 0 {
		return models.ForecastSeries{}, fmt.Errorf("%w: %s produced no finite values", models.ErrModelFit, name)
	}
	return models.ForecastSeries{
		Strategy: name,
		Dates:    models.DailyRange(models.Day(last).AddDate(0, 0, 1), len(values)),
		Values:   values,
	}, nil
}

func checkInput(s models.PriceSeries, horizon int) error {
	if horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %d", models.ErrModelFit, horizon)
	}
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("%w: series has %d dates and %d values", models.ErrModelFit, len(s.Dates), len(s.Values))
	}
	for _, v := range s.Values {
		if !models.IsFinite(v) {
			return fmt.Errorf("%w: series contains non-finite values", models.ErrModelFit)
		}
	}
	return nil
}
