package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput       = errors.New("no data found for the given stock ticker")
	ErrInsufficientData = errors.New("insufficient data")
	ErrModelFit         = errors.New("model fit failed")
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrUnknownStrategy  = errors.New("unknown strategy")
)

// Stage is a step of the forecast pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageFetching
	StageNormalizing
	StageForecasting
	StageMerging
	StageReady
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageFetching:
		return "fetching"
	case StageNormalizing:
		return "normalizing"
	case StageForecasting:
		return "forecasting"
	case StageMerging:
		return "merging"
	case StageReady:
		return "ready"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError tags a run failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage of a *StageError in err's chain, or StageFailed.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageFailed
}
