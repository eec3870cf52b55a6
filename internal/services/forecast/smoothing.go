package forecast

import (
	"context"
	"fmt"
	"math"

	"StockForecast/internal/domain/models"

	"github.com/markcheno/go-talib"
)

const (
	holtSeedWindow = 10
	holtGridStep   = 0.05
	holtFineStep   = 0.01
)

// holtModel is additive-trend exponential smoothing without seasonality.
type holtModel struct {
	alpha, beta  float64
	level, trend float64
	sse          float64
}

// fitHolt seeds level and trend from a linear regression over the first points,
// then picks alpha and beta by one-step SSE on a coarse grid and a fine
// neighbourhood around the coarse optimum.
func fitHolt(ctx context.Context, y []float64) (*holtModel, error) {
	if len(y) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 observations, got %d", models.ErrModelFit, len(y))
	}
	window := holtSeedWindow
	if len(y) < window {
		window = len(y)
	}
	seed := y[:window]
	l0 := talib.LinearRegIntercept(seed, window)[window-1]
	b0 := talib.LinearRegSlope(seed, window)[window-1]
	if !models.IsFinite(l0) || !models.IsFinite(b0) {
		return nil, fmt.Errorf("%w: could not seed level and trend", models.ErrModelFit)
	}

	var best *holtModel
	try := func(a, b float64) {
		m := runHolt(y, a, b, l0, b0)
		if models.IsFinite(m.sse) && (best == nil || m.sse < best.sse) {
			best = m
		}
	}
	for a := holtGridStep; a <= 1+1e-9; a += holtGridStep {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for b := 0.0; b <= 1+1e-9; b += holtGridStep {
			try(math.Min(a, 1), math.Min(b, 1))
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: smoothing diverged for every parameter pair", models.ErrModelFit)
	}

	ca, cb := best.alpha, best.beta
	for a := ca - holtGridStep; a <= ca+holtGridStep+1e-9; a += holtFineStep {
		if a <= 0 || a > 1+1e-9 {
			continue
		}
		for b := cb - holtGridStep; b <= cb+holtGridStep+1e-9; b += holtFineStep {
			if b < -1e-9 || b > 1+1e-9 {
				continue
			}
			try(math.Min(a, 1), math.Max(0, math.Min(b, 1)))
		}
	}
	return best, nil
}

func runHolt(y []float64, alpha, beta, l0, b0 float64) *holtModel {
	level, trend := l0-b0, b0
	sse := 0.0
	for _, v := range y {
		f := level + trend
		e := v - f
		sse += e * e
		next := alpha*v + (1-alpha)*f
		trend = beta*(next-level) + (1-beta)*trend
		level = next
	}
	return &holtModel{alpha: alpha, beta: beta, level: level, trend: trend, sse: sse}
}

// forecast returns level + k*trend keyed by step k = 1..h.
func (m *holtModel) forecast(h int) map[int]float64 {
	out := make(map[int]float64, h)
	for k := 1; k <= h; k++ {
		out[k] = m.level + float64(k)*m.trend
	}
	return out
}
