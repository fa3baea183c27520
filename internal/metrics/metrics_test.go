package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersMetrics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	m.RefreshCyclesTotal.WithLabelValues("success").Inc()
	m.QueriesTotal.WithLabelValues("free", "found").Add(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RefreshCyclesTotal.WithLabelValues("success")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.QueriesTotal.WithLabelValues("free", "found")))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	New(registry)
	assert.Panics(t, func() { New(registry) })
}
