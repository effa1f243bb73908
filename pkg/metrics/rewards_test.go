package metrics

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRewardsMetrics(reg)

	scale := big.NewInt(1_000_000_000_000_000_000)
	realized := new(big.Int).Mul(big.NewInt(105), scale)
	requested := new(big.Int).Mul(big.NewInt(100), scale)

	m.ObserveGeneration(7, 12, 3, realized, requested, scale)
	m.ObserveGeneration(8, 0, 0, big.NewInt(0), big.NewInt(0), scale)
	m.ObserveGenerationFailure()

	require.Equal(t, 1.0, testutil.ToFloat64(m.manifestsGenerated.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.manifestsGenerated.WithLabelValues("empty")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.manifestsGenerated.WithLabelValues("error")))
	require.Equal(t, 12.0, testutil.ToFloat64(m.recipients.WithLabelValues("7")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.floorApplied.WithLabelValues("7")))
	require.Equal(t, 105.0, testutil.ToFloat64(m.realizedTotal.WithLabelValues("7")))
	require.Equal(t, 100.0, testutil.ToFloat64(m.requestedTotal.WithLabelValues("7")))
}

func TestObserveVerification(t *testing.T) {
	m := NewRewardsMetrics(nil)
	m.ObserveVerification(true)
	m.ObserveVerification(false)
	m.ObserveVerification(false)

	require.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("valid")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("invalid")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var m *RewardsMetrics
	require.NotPanics(t, func() {
		m.ObserveGeneration(1, 1, 0, big.NewInt(1), big.NewInt(1), big.NewInt(1))
		m.ObserveGenerationFailure()
		m.ObserveVerification(true)
	})
}
