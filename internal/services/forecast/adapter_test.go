package forecast

import (
	"math"
	"testing"

	"StockForecast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFrameKeepsFutureOnly(t *testing.T) {
	last := t0.AddDate(0, 0, 9)
	frame := []FramePoint{
		{DS: t0, YHat: 1},
		{DS: last, YHat: 2},
		{DS: last.AddDate(0, 0, 1), YHat: 10},
		{DS: last.AddDate(0, 0, 4), YHat: 40},
		{DS: last.AddDate(0, 0, 9), YHat: 99},
	}
	f, err := fromFrame("x", last, frame, 5)
	require.NoError(t, err)
	require.Equal(t, 5, f.Len())
	assert.Equal(t, []float64{10, 20, 30, 40}, f.Values[:4])
	assert.True(t, math.IsNaN(f.Values[4]))
	assert.Equal(t, last.AddDate(0, 0, 1), f.Dates[0])
}

func TestFromStepsShortOutput(t *testing.T) {
	f, err := fromSteps("x", t0, []float64{1, 2}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, 2.0, f.Values[1])
	assert.True(t, math.IsNaN(f.Values[3]))
}

func TestFromStepMapIgnoresOutOfRange(t *testing.T) {
	f, err := fromStepMap("x", t0, map[int]float64{0: 7, 1: 1, 3: 3, 9: 9}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, f.Values)
}

func TestAdapterAllMissingFails(t *testing.T) {
	_, err := fromSteps("x", t0, []float64{math.Inf(1), math.NaN()}, 2)
	assert.ErrorIs(t, err, models.ErrModelFit)
}

func TestRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{models.StrategyAutoRegressive, models.StrategyTrendSeasonal, models.StrategySmoothingTrend}, r.Names())

	name, ok := r.Resolve(" trendseasonal ")
	require.True(t, ok)
	assert.Equal(t, models.StrategyTrendSeasonal, name)
	_, ok = r.Resolve("prophet")
	assert.False(t, ok)

	remote := NewRemoteStrategy(models.StrategyTrendSeasonal, nil)
	r.Register(remote)
	got, _ := r.Get(models.StrategyTrendSeasonal)
	assert.Same(t, remote, got)
	assert.Len(t, r.Names(), 3)
	assert.Equal(t, models.StrategyTrendSeasonal, r.Names()[1])
}
