// Package metrics provides Prometheus instrumentation for the moderation
// pipeline: verdict counts by reason, remediation failures by step, retrain
// counts and the number of live moderation sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// VerdictsTotal counts moderation verdicts, labeled by reason.
	VerdictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardbot_verdicts_total",
		Help: "Total number of non-allow moderation verdicts by reason",
	}, []string{"reason"})

	// RemediationFailures counts failed remediation steps, labeled by step:
	// "delete", "warn", "audit" or "ban".
	RemediationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardbot_remediation_failures_total",
		Help: "Total number of failed remediation steps",
	}, []string{"step"})

	// RetrainsTotal counts classifier retrains triggered by moderator feedback.
	RetrainsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardbot_retrains_total",
		Help: "Total number of classifier retrains",
	})

	// LiveSessions tracks the current number of open moderation sessions.
	LiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "guardbot_live_sessions",
		Help: "Current number of open moderation sessions",
	})
)

func init() {
	prometheus.MustRegister(
		VerdictsTotal,
		RemediationFailures,
		RetrainsTotal,
		LiveSessions,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
