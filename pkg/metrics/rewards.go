package metrics

import (
	"math/big"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type RewardsMetrics struct {
	manifestsGenerated *prometheus.CounterVec
	recipients         *prometheus.GaugeVec
	realizedTotal      *prometheus.GaugeVec
	requestedTotal     *prometheus.GaugeVec
	floorApplied       *prometheus.GaugeVec
	verifications      *prometheus.CounterVec
}

var (
	rewardsOnce     sync.Once
	rewardsRegistry *RewardsMetrics
)

// Rewards returns the process-wide collectors registered on the default
// prometheus registry.
func Rewards() *RewardsMetrics {
	rewardsOnce.Do(func() {
		rewardsRegistry = NewRewardsMetrics(prometheus.DefaultRegisterer)
	})
	return rewardsRegistry
}

// NewRewardsMetrics builds the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewRewardsMetrics(reg prometheus.Registerer) *RewardsMetrics {
	m := &RewardsMetrics{
		manifestsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rewards_manifests_generated_total",
			Help: "Count of season manifests generated, by outcome.",
		}, []string{"outcome"}),
		recipients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rewards_recipients",
			Help: "Recipient count of the latest manifest per season.",
		}, []string{"season"}),
		realizedTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rewards_realized_total_tokens",
			Help: "Realized allocation per season in whole tokens.",
		}, []string{"season"}),
		requestedTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rewards_requested_total_tokens",
			Help: "Requested pool per season in whole tokens.",
		}, []string{"season"}),
		floorApplied: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rewards_min_floor_applied",
			Help: "Recipients lifted to the minimum reward per season.",
		}, []string{"season"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rewards_claim_verifications_total",
			Help: "Claim verifications by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.manifestsGenerated,
			m.recipients,
			m.realizedTotal,
			m.requestedTotal,
			m.floorApplied,
			m.verifications,
		)
	}
	return m
}

// ObserveGeneration records a completed generation run.
// Totals are given in base units and reported in whole tokens.
func (m *RewardsMetrics) ObserveGeneration(season uint64, recipients int, floorApplied int, realized, requested, scale *big.Int) {
	if m == nil {
		return
	}
	label := strconv.FormatUint(season, 10)
	outcome := "ok"
	if recipients == 0 {
		outcome = "empty"
	}
	m.manifestsGenerated.WithLabelValues(outcome).Inc()
	m.recipients.WithLabelValues(label).Set(float64(recipients))
	m.floorApplied.WithLabelValues(label).Set(float64(floorApplied))
	m.realizedTotal.WithLabelValues(label).Set(toTokens(realized, scale))
	m.requestedTotal.WithLabelValues(label).Set(toTokens(requested, scale))
}

// ObserveGenerationFailure counts a generation rejected with an error.
func (m *RewardsMetrics) ObserveGenerationFailure() {
	if m == nil {
		return
	}
	m.manifestsGenerated.WithLabelValues("error").Inc()
}

// ObserveVerification counts a claim verification result.
func (m *RewardsMetrics) ObserveVerification(valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.verifications.WithLabelValues(result).Inc()
}

func toTokens(amount, scale *big.Int) float64 {
	if amount == nil {
		return 0
	}
	if scale == nil || scale.Sign() == 0 {
		f, _ := new(big.Float).SetInt(amount).Float64()
		return f
	}
	f, _ := new(big.Rat).SetFrac(amount, scale).Float64()
	return f
}
