package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockForecast/internal/domain/models"
	domrepo "StockForecast/internal/domain/repository"
	applogger "StockForecast/pkg/logger"

	"github.com/sony/gobreaker"
)

// BreakerSettings configures BreakerPriceSource.
type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// BreakerPriceSource short-circuits calls to an unhealthy source.
type BreakerPriceSource struct {
	next domrepo.PriceSource
	cb   *gobreaker.CircuitBreaker
}

var _ domrepo.PriceSource = (*BreakerPriceSource)(nil)

func NewBreakerPriceSource(next domrepo.PriceSource, cfg BreakerSettings, l *applogger.Logger) *BreakerPriceSource {
	if l == nil {
		l = applogger.Nop()
	}
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("price source breaker state change",
				applogger.String("breaker", name),
				applogger.String("from", from.String()),
				applogger.String("to", to.String()),
			)
		},
		// Caller cancellation says nothing about the upstream's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerPriceSource{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State reports the breaker state.
func (s *BreakerPriceSource) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerPriceSource) GetDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceRecord, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.GetDailyPrices(ctx, symbol, from, to)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("price source unavailable: %w", err)
		}
		return nil, err
	}
	recs, _ := res.([]models.PriceRecord)
	return recs, nil
}
