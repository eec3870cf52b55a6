package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockForecast/internal/domain/models"

	"gonum.org/v1/gonum/mat"
)

const (
	tsMaxChangepoints  = 25
	tsChangepointRange = 0.8
	tsWeeklyOrder      = 3
	tsYearlyOrder      = 10
	tsWeeklyMinDays    = 14
	tsYearlyMinDays    = 730
	daysPerYear        = 365.25
	daysPerWeek        = 7.0
)

// Ridge weights per observation on changepoint rate adjustments and on
// seasonal coefficients. Intercept and base slope are unpenalised.
const (
	tsChangepointRidge = 0.01
	tsSeasonalityRidge = 0.0001
)

// trendSeasonalModel is an additive piecewise-linear trend plus Fourier
// seasonality fitted on max-abs scaled values.
type trendSeasonalModel struct {
	start        time.Time
	span         float64 // days from first to last observation
	scale        float64
	changepoints []float64 // in scaled time
	weekly       bool
	yearly       bool
	beta         []float64
}

func fitTrendSeasonal(ctx context.Context, dates []time.Time, y []float64) (*trendSeasonalModel, error) {
	n := len(y)
	if n < 2 || len(dates) != n {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", models.ErrModelFit, n)
	}
	m := &trendSeasonalModel{
		start: models.Day(dates[0]),
		span:  float64(models.DaysBetween(dates[0], dates[n-1])),
	}
	if m.span <= 0 {
		return nil, fmt.Errorf("%w: history spans no time", models.ErrModelFit)
	}
	for _, v := range y {
		if a := math.Abs(v); a > m.scale {
			m.scale = a
		}
	}
	if m.scale == 0 {
		m.scale = 1
	}
	m.weekly = m.span >= tsWeeklyMinDays
	m.yearly = m.span >= tsYearlyMinDays

	histSize := int(math.Floor(float64(n) * tsChangepointRange))
	ncp := tsMaxChangepoints
	if histSize-1 < ncp {
		ncp = histSize - 1
	}
	for i := 1; i <= ncp; i++ {
		idx := int(math.Round(float64(i) * float64(histSize-1) / float64(ncp)))
		m.changepoints = append(m.changepoints, m.scaledTime(dates[idx]))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := m.width()
	cpFirst := 2
	seasonFirst := cpFirst + len(m.changepoints)
	penalised := k - cpFirst
	x := mat.NewDense(n+penalised, k, nil)
	target := make([]float64, n+penalised)
	for i := 0; i < n; i++ {
		x.SetRow(i, m.features(dates[i]))
		target[i] = y[i] / m.scale
	}
	cpW := math.Sqrt(tsChangepointRidge * float64(n))
	seasonW := math.Sqrt(tsSeasonalityRidge * float64(n))
	for j := cpFirst; j < k; j++ {
		w := cpW
		if j >= seasonFirst {
			w = seasonW
		}
		x.Set(n+j-cpFirst, j, w)
	}

	beta, err := leastSquares(x, target)
	if err != nil {
		return nil, fmt.Errorf("%w: trend/seasonality solve: %v", models.ErrModelFit, err)
	}
	for _, b := range beta {
		if !models.IsFinite(b) {
			return nil, fmt.Errorf("%w: trend/seasonality fit diverged", models.ErrModelFit)
		}
	}
	m.beta = beta
	return m, nil
}

func (m *trendSeasonalModel) width() int {
	k := 2 + len(m.changepoints)
	if m.weekly {
		k += 2 * tsWeeklyOrder
	}
	if m.yearly {
		k += 2 * tsYearlyOrder
	}
	return k
}

func (m *trendSeasonalModel) scaledTime(d time.Time) float64 {
	return float64(models.DaysBetween(m.start, d)) / m.span
}

func (m *trendSeasonalModel) features(d time.Time) []float64 {
	days := float64(models.DaysBetween(m.start, d))
	t := days / m.span
	row := make([]float64, 0, m.width())
	row = append(row, 1, t)
	for _, cp := range m.changepoints {
		row = append(row, math.Max(0, t-cp))
	}
	if m.weekly {
		row = appendFourier(row, days, daysPerWeek, tsWeeklyOrder)
	}
	if m.yearly {
		row = appendFourier(row, days, daysPerYear, tsYearlyOrder)
	}
	return row
}

func appendFourier(row []float64, days, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		a := 2 * math.Pi * float64(k) * days / period
		row = append(row, math.Sin(a), math.Cos(a))
	}
	return row
}

// predict evaluates the model over dates, returning a (ds, yhat) frame.
func (m *trendSeasonalModel) predict(dates []time.Time) ([]FramePoint, error) {
	out := make([]FramePoint, len(dates))
	for i, d := range dates {
		v := dot(m.features(d), m.beta) * m.scale
		if !models.IsFinite(v) {
			return nil, fmt.Errorf("%w: non-finite prediction at %s", models.ErrModelFit, d.Format("2006-01-02"))
		}
		out[i] = FramePoint{DS: models.Day(d), YHat: v}
	}
	return out, nil
}

// futureFrame returns the history dates extended by horizon daily steps.
func futureFrame(history []time.Time, horizon int) []time.Time {
	out := make([]time.Time, 0, len(history)+horizon)
	out = append(out, history...)
	if len(history) == 0 {
		return out
	}
	return append(out, models.DailyRange(models.Day(history[len(history)-1]).AddDate(0, 0, 1), horizon)...)
}
