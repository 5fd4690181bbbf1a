package metrics_test

import (
	"testing"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	recorder.ObserveOperation("initiate", "direct_capture", "COMPLETED", 120*time.Millisecond)
	recorder.ObserveOperation("initiate", "direct_capture", "COMPLETED", 80*time.Millisecond)
	recorder.ObserveOperation("refund", "token_redirect", "VALIDATION", time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"orchestrator_operations_total",
		"orchestrator_operation_duration_seconds",
	}, names)

	count, err := testutil.GatherAndCount(reg, "orchestrator_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_CountsPerOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	recorder.ObserveOperation("capture", "redirect_approval", "DECLINED", time.Millisecond)
	recorder.ObserveOperation("capture", "redirect_approval", "DECLINED", time.Millisecond)
	recorder.ObserveOperation("capture", "redirect_approval", "COMPLETED", time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "orchestrator_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
