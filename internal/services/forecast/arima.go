package forecast

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"StockForecast/internal/domain/models"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	arimaMaxP      = 3
	arimaMaxQ      = 3
	arimaMaxD      = 2
	arimaMinObs    = 16
	kpssCritical05 = 0.463

	// Residual variance below this share of var(w) means an exact, collinear fit.
	arimaMinVarRatio = 1e-10
	// Ridge penalty for the long AR when plain OLS is singular, relative to
	// the regressors' energy.
	longARRidge = 1e-6
)

// arimaFit is a fitted ARIMA(p,d,q) with intercept on the d-times differenced series.
type arimaFit struct {
	p, d, q int
	c       float64
	phi     []float64
	theta   []float64
	aic     float64

	levels [][]float64 // levels[k] is the series differenced k times
	resid  []float64   // aligned with levels[d]
}

// fitARIMA selects d by repeated KPSS tests, then searches p,q in 0..3 and keeps
// the lowest AIC fit.
func fitARIMA(ctx context.Context, y []float64) (*arimaFit, error) {
	if len(y) < arimaMinObs {
		return nil, fmt.Errorf("%w: need at least %d observations, got %d", models.ErrModelFit, arimaMinObs, len(y))
	}
	if isConstant(y) {
		return nil, fmt.Errorf("%w: constant series", models.ErrModelFit)
	}

	levels := [][]float64{y}
	for d := 0; d < arimaMaxD; d++ {
		cur := levels[d]
		if len(cur)-1 < arimaMinObs || kpssLevel(cur) <= kpssCritical05 {
			break
		}
		levels = append(levels, diff(cur))
	}
	d := len(levels) - 1
	w := levels[d]

	if isConstant(w) {
		// A perfectly linear (d=1) or quadratic (d=2) history: pure drift.
		return &arimaFit{d: d, c: w[0], levels: levels, resid: make([]float64, len(w))}, nil
	}

	n := len(w)
	m := int(math.Round(10 * math.Log10(float64(n))))
	if m < 4 {
		m = 4
	}
	if m > n/4 {
		m = n / 4
	}
	// Without long-AR residuals only the pure AR orders (q=0) are candidates.
	longResid, err := longARResiduals(w, m)
	if err != nil {
		longResid = nil
	}
	start := m + arimaMaxQ
	minSigma2 := arimaMinVarRatio * stat.Variance(w, nil)

	var best *arimaFit
	for p := 0; p <= arimaMaxP; p++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for q := 0; q <= arimaMaxQ; q++ {
			if q > 0 && longResid == nil {
				break
			}
			f, err := fitARMA(w, longResid, p, q, start, minSigma2)
			if err != nil {
				continue
			}
			if best == nil || f.aic < best.aic {
				best = f
			}
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no ARMA order could be fitted (d=%d)", models.ErrModelFit, d)
	}
	best.d = d
	best.levels = levels
	return best, nil
}

// longARResiduals fits AR(m) with intercept by OLS and returns its residuals;
// the first m entries are zero. Deterministic series make the lags collinear,
// in which case the fit is ridge-penalised.
func longARResiduals(w []float64, m int) ([]float64, error) {
	n := len(w)
	rows := n - m
	x := mat.NewDense(rows, m+1, nil)
	y := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := r + m
		x.Set(r, 0, 1)
		for j := 1; j <= m; j++ {
			x.Set(r, j, w[t-j])
		}
		y[r] = w[t]
	}
	b, err := leastSquares(x, y)
	if err != nil {
		energy := 0.0
		for _, v := range w {
			energy += v * v
		}
		b, err = ridgeLeastSquares(x, y, longARRidge*energy*float64(rows)/float64(n))
		if err != nil {
			return nil, err
		}
	}
	resid := make([]float64, n)
	for r := 0; r < rows; r++ {
		resid[r+m] = y[r] - dot(x.RawRowView(r), b)
	}
	return resid, nil
}

// fitARMA is the second Hannan-Rissanen stage: regress w_t on its own lags and
// lagged long-AR residuals over rows start..n-1.
func fitARMA(w, longResid []float64, p, q, start int, minSigma2 float64) (*arimaFit, error) {
	n := len(w)
	k := 1 + p + q
	rows := n - start
	if rows < k+2 {
		return nil, fmt.Errorf("too few rows for ARMA(%d,%d)", p, q)
	}
	x := mat.NewDense(rows, k, nil)
	y := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := r + start
		x.Set(r, 0, 1)
		for i := 1; i <= p; i++ {
			x.Set(r, i, w[t-i])
		}
		for j := 1; j <= q; j++ {
			x.Set(r, p+j, longResid[t-j])
		}
		y[r] = w[t]
	}
	b, err := leastSquares(x, y)
	if err != nil {
		return nil, err
	}

	f := &arimaFit{p: p, q: q, c: b[0], phi: b[1 : 1+p], theta: b[1+p:]}
	if !inUnitCircle(f.phi) || !inUnitCircle(negate(f.theta)) {
		return nil, fmt.Errorf("ARMA(%d,%d) is not stationary or not invertible", p, q)
	}

	f.resid = make([]float64, n)
	rss := 0.0
	for r := 0; r < rows; r++ {
		e := y[r] - dot(x.RawRowView(r), b)
		f.resid[r+start] = e
		rss += e * e
	}
	sigma2 := rss / float64(rows)
	if sigma2 <= minSigma2 || !models.IsFinite(sigma2) {
		return nil, fmt.Errorf("ARMA(%d,%d) has degenerate residual variance", p, q)
	}
	f.aic = float64(rows)*math.Log(sigma2) + 2*float64(k+1)
	return f, nil
}

// predict returns h forecasts on the original scale.
func (f *arimaFit) predict(h int) []float64 {
	w := f.levels[f.d]
	ws := append(make([]float64, 0, len(w)+h), w...)
	es := append(make([]float64, 0, len(w)+h), f.resid...)
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		t := len(ws)
		v := f.c
		for j := 1; j <= f.p; j++ {
			v += f.phi[j-1] * ws[t-j]
		}
		for j := 1; j <= f.q; j++ {
			v += f.theta[j-1] * es[t-j]
		}
		ws = append(ws, v)
		es = append(es, 0)
		out[i] = v
	}
	for k := f.d - 1; k >= 0; k-- {
		lvl := f.levels[k]
		prev := lvl[len(lvl)-1]
		for i := range out {
			prev += out[i]
			out[i] = prev
		}
	}
	return out
}

func (f *arimaFit) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", f.p, f.d, f.q)
}

// kpssLevel returns the KPSS statistic for level stationarity with a Bartlett
// long-run variance estimate.
func kpssLevel(x []float64) float64 {
	n := len(x)
	mean := stat.Mean(x, nil)
	e := make([]float64, n)
	for i, v := range x {
		e[i] = v - mean
	}
	eta, s := 0.0, 0.0
	for _, v := range e {
		s += v
		eta += s * s
	}
	nf := float64(n)
	eta /= nf * nf

	lags := int(math.Trunc(3 * math.Sqrt(nf) / 13))
	s2 := 0.0
	for _, v := range e {
		s2 += v * v
	}
	for k := 1; k <= lags; k++ {
		g := 0.0
		for t := k; t < n; t++ {
			g += e[t] * e[t-k]
		}
		s2 += 2 * (1 - float64(k)/float64(lags+1)) * g
	}
	s2 /= nf
	if s2 <= 1e-300 {
		return 0
	}
	return eta / s2
}

// inUnitCircle reports whether every eigenvalue of the companion matrix of
// coeffs lies strictly inside the unit circle.
func inUnitCircle(coeffs []float64) bool {
	p := len(coeffs)
	if p == 0 {
		return true
	}
	a := mat.NewDense(p, p, nil)
	for j, c := range coeffs {
		a.Set(0, j, c)
	}
	for i := 1; i < p; i++ {
		a.Set(i, i-1, 1)
	}
	var eig mat.Eigen
	if !eig.Factorize(a, mat.EigenNone) {
		return false
	}
	for _, v := range eig.Values(nil) {
		if cmplx.Abs(v) >= 1 {
			return false
		}
	}
	return true
}

func negate(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = -v
	}
	return out
}

func diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}

func isConstant(xs []float64) bool {
	if len(xs) < 2 {
		return true
	}
	mean := stat.Mean(xs, nil)
	return stat.Variance(xs, nil) <= 1e-12*(1+mean*mean)
}
