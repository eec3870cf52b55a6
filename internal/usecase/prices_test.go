package usecase

import (
	"context"
	"testing"
	"time"

	"StockForecast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPricesChronologicalAndLimited(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	uc := NewPricesUseCase(staticSource(weekdays(start, 14), nil))

	res, err := uc.GetPrices(context.Background(), GetPricesParams{Symbol: "test", From: start, To: start.AddDate(0, 0, 13), Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, "TEST", res.Symbol)
	require.Equal(t, 3, res.Count)
	// The three most recent weekdays are Wed 10th, Thu 11th, Fri 12th.
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), res.Records[0].Date)
	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), res.Records[2].Date)
}

func TestGetPricesErrors(t *testing.T) {
	uc := NewPricesUseCase(staticSource(nil, nil))

	_, err := uc.GetPrices(context.Background(), GetPricesParams{})
	assert.ErrorIs(t, err, models.ErrInvalidParams)

	_, err = uc.GetPrices(context.Background(), GetPricesParams{Symbol: "X"})
	assert.ErrorIs(t, err, models.ErrEmptyInput)

	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	_, err = uc.GetPrices(context.Background(), GetPricesParams{Symbol: "X", From: d, To: d.AddDate(0, 0, -1)})
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}
