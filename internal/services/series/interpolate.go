package series

import "StockForecast/internal/domain/models"

// FillGaps replaces non-finite values lying between two finite values with a
// linear interpolation on the slot index. Values are assumed one day apart, so
// this is interpolation over time. Leading and trailing gaps are left as is.
// It returns the number of slots filled.
func FillGaps(values []float64) int {
	filled := 0
	prev := -1
	for i, v := range values {
		if !models.IsFinite(v) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			a, b := values[prev], v
			span := float64(i - prev)
			for k := prev + 1; k < i; k++ {
				w := float64(k-prev) / span
				values[k] = a + (b-a)*w
				filled++
			}
		}
		prev = i
	}
	return filled
}

// CountFinite returns how many values are finite.
func CountFinite(values []float64) int {
	n := 0
	for _, v := range values {
		if models.IsFinite(v) {
			n++
		}
	}
	return n
}
