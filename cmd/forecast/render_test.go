package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"StockForecast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func fp(v float64) *float64 { return &v }

func TestWriteChart(t *testing.T) {
	run := &models.ForecastRun{
		Chart: models.ChartDataset{
			Dates: []time.Time{day("2024-01-01"), day("2024-01-02")},
			Columns: []models.ChartColumn{
				{Name: models.HistoryColumn, Values: []*float64{fp(10), nil}},
				{Name: "SmoothingTrend", Values: []*float64{nil, fp(11.256)}},
			},
		},
		Warnings: []models.StrategyWarning{{Strategy: "AutoRegressive", Err: errors.New("model fit failed")}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeChart(&buf, run))
	out := buf.String()
	assert.Contains(t, out, "Close")
	assert.Contains(t, out, "SmoothingTrend")
	assert.Contains(t, out, "2024-01-02")
	assert.Contains(t, out, "11.26")
	assert.Contains(t, out, "warning: AutoRegressive: model fit failed")
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, &models.ForecastRun{}))
	assert.Equal(t, "no forecasts\n", buf.String())
}

func TestParseDateFlag(t *testing.T) {
	d, err := parseDateFlag("start", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseDateFlag("start", "2023-03-04")
	require.NoError(t, err)
	assert.Equal(t, day("2023-03-04"), d)

	_, err = parseDateFlag("end", "03/04/2023")
	assert.ErrorContains(t, err, "invalid --end")
}

func TestWriteStrategiesMarksDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStrategies(&buf, []string{"AutoRegressive", "TrendSeasonal"}, []string{"TrendSeasonal"}))
	assert.Equal(t, "  AutoRegressive\n* TrendSeasonal\n", buf.String())
}
