package series

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"StockForecast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(t time.Time, c float64) models.PriceRecord {
	return models.PriceRecord{Date: t, Open: c, High: c, Low: c, Close: c}
}

func TestNormalizeFillsWeekendGap(t *testing.T) {
	var records []models.PriceRecord
	for d := 1; d <= 10; d++ {
		if d == 5 || d == 6 {
			continue
		}
		records = append(records, rec(day(2024, 1, d), float64(100+d)))
	}

	s, err := Normalize(records, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 10, s.Len())
	assert.Equal(t, day(2024, 1, 1), s.FirstDate())
	assert.Equal(t, day(2024, 1, 10), s.LastDate())
	assert.InDelta(t, 105.0, s.Values[4], 1e-9)
	assert.InDelta(t, 106.0, s.Values[5], 1e-9)
	for i := 1; i < s.Len(); i++ {
		assert.Equal(t, 1, models.DaysBetween(s.Dates[i-1], s.Dates[i]))
	}
}

func TestNormalizeTimeWeighted(t *testing.T) {
	records := []models.PriceRecord{
		rec(day(2024, 3, 1), 10),
		rec(day(2024, 3, 5), 30),
	}
	s, err := Normalize(records, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 15, 20, 25, 30}, s.Values)
}

func TestNormalizeEmpty(t *testing.T) {
	_, err := Normalize(nil, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestNormalizeOutOfRangeIsEmpty(t *testing.T) {
	records := []models.PriceRecord{rec(day(2023, 1, 1), 1), rec(day(2023, 1, 2), 2)}
	_, err := Normalize(records, day(2024, 1, 1), day(2024, 2, 1))
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestNormalizeSingleDayInsufficient(t *testing.T) {
	records := []models.PriceRecord{rec(day(2024, 1, 1), 1), rec(day(2024, 1, 1), 2)}
	_, err := Normalize(records, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestNormalizeDedupLastWins(t *testing.T) {
	records := []models.PriceRecord{
		rec(day(2024, 1, 2), 50),
		rec(day(2024, 1, 1), 10),
		rec(day(2024, 1, 2).Add(15*time.Hour), 20),
	}
	s, err := Normalize(records, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, s.Values)
}

func TestNormalizeNaNCloseIsInterpolated(t *testing.T) {
	records := []models.PriceRecord{
		rec(day(2024, 1, 1), 1),
		rec(day(2024, 1, 2), math.NaN()),
		rec(day(2024, 1, 3), 3),
		rec(day(2024, 1, 4), math.NaN()),
	}
	s, err := Normalize(records, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, s.Values)
}

func TestNormalizeSpansFiniteCloses(t *testing.T) {
	records := []models.PriceRecord{
		rec(day(2024, 1, 1), math.NaN()),
		rec(day(2024, 1, 2), 2),
		rec(day(2024, 1, 4), 4),
		rec(day(2024, 1, 5), math.Inf(1)),
	}
	s, err := Normalize(records, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 2), s.Dates[0])
	assert.Equal(t, day(2024, 1, 4), s.LastDate())
	assert.Equal(t, []float64{2, 3, 4}, s.Values)
}

func TestNormalizeRespectsRange(t *testing.T) {
	var records []models.PriceRecord
	for d := 1; d <= 20; d++ {
		records = append(records, rec(day(2024, 1, d), float64(d)))
	}
	s, err := Normalize(records, day(2024, 1, 5), day(2024, 1, 8))
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7, 8}, s.Values)
}

func TestNormalizeRandomCoverage(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := day(2022, 6, 1)
	for iter := 0; iter < 50; iter++ {
		n := 2 + rng.Intn(40)
		records := make([]models.PriceRecord, 0, n)
		minD, maxD := math.MaxInt, -1
		for i := 0; i < n; i++ {
			off := rng.Intn(90)
			if off < minD {
				minD = off
			}
			if off > maxD {
				maxD = off
			}
			records = append(records, rec(base.AddDate(0, 0, off), 100+rng.Float64()*10))
		}
		if minD == maxD {
			continue
		}
		rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })

		s, err := Normalize(records, time.Time{}, time.Time{})
		require.NoError(t, err)
		require.Equal(t, maxD-minD+1, s.Len())
		for _, v := range s.Values {
			require.True(t, models.IsFinite(v))
		}
	}
}

func TestSortRecords(t *testing.T) {
	in := []models.PriceRecord{rec(day(2024, 1, 3), 3), rec(day(2024, 1, 1), 1), rec(day(2024, 1, 2), 2)}
	out := SortRecords(in)
	assert.Equal(t, 3.0, in[0].Close)
	assert.Equal(t, []float64{1, 2, 3}, []float64{out[0].Close, out[1].Close, out[2].Close})
}

func TestFillGapsLeavesEdges(t *testing.T) {
	v := []float64{math.NaN(), 1, math.NaN(), 3, math.NaN()}
	assert.Equal(t, 1, FillGaps(v))
	assert.True(t, math.IsNaN(v[0]))
	assert.Equal(t, 2.0, v[2])
	assert.True(t, math.IsNaN(v[4]))
	assert.Equal(t, 3, CountFinite(v))
}
