package repository

// Metrics records pipeline observations.
type Metrics interface {
	RecordStage(stage string, seconds float64)
	RecordStrategy(strategy, outcome string, seconds float64)
	RecordRun(outcome string)
	RecordError(kind string)
}

// Strategy and run outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
	OutcomeEmpty  = "empty"
)
