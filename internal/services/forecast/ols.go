package forecast

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

var errRankDeficient = errors.New("design matrix has fewer rows than columns")

// leastSquares returns b minimising ||X b - y|| using a QR solve.
func leastSquares(x *mat.Dense, y []float64) ([]float64, error) {
	r, c := x.Dims()
	if r < c {
		return nil, errRankDeficient
	}
	var b mat.VecDense
	if err := b.SolveVec(x, mat.NewVecDense(len(y), y)); err != nil {
		return nil, err
	}
	out := make([]float64, c)
	for i := range out {
		out[i] = b.AtVec(i)
	}
	return out, nil
}

// ridgeLeastSquares solves the same problem with lambda·||b[1:]||² added, by
// appending sqrt(lambda) rows for every column but the intercept.
func ridgeLeastSquares(x *mat.Dense, y []float64, lambda float64) ([]float64, error) {
	r, c := x.Dims()
	aug := mat.NewDense(r+c-1, c, nil)
	aug.Slice(0, r, 0, c).(*mat.Dense).Copy(x)
	target := make([]float64, r+c-1)
	copy(target, y)
	sq := math.Sqrt(lambda)
	for j := 1; j < c; j++ {
		aug.Set(r+j-1, j, sq)
	}
	return leastSquares(aug, target)
}

// dot returns row·b.
func dot(row, b []float64) float64 {
	s := 0.0
	for i := range row {
		s += row[i] * b[i]
	}
	return s
}
