package metrics

import (
	"testing"

	domrepo "StockForecast/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var (
	_ domrepo.Metrics = (*Recorder)(nil)
	_ domrepo.Metrics = Nop{}
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordRun(domrepo.OutcomeOK)
	r.RecordRun(domrepo.OutcomeOK)
	r.RecordRun(domrepo.OutcomeFailed)
	r.RecordStrategy("ARIMA", domrepo.OutcomeOK, 0.2)
	r.RecordStrategy("ARIMA", domrepo.OutcomeFailed, 0.1)
	r.RecordError("fetch")
	r.RecordStage("forecasting", 0.3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues(domrepo.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues(domrepo.OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.strategyTotal.WithLabelValues("ARIMA", domrepo.OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("fetch")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.strategyTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageLatency))
}
