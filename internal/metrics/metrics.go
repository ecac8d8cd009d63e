// Package metrics provides Prometheus instrumentation for the chat moderation
// service. It exposes counters for verdicts, detector hits and enforcement
// actions, and a histogram for classification latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesTotal counts classified messages, labeled by verdict:
	// "clean" or "flagged".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_messages_total",
		Help: "Total number of messages classified",
	}, []string{"verdict"})

	// FlagsTotal counts flagged messages by the detector that fired.
	FlagsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_flags_total",
		Help: "Total number of flagged messages by rule",
	}, []string{"rule"})

	// StrikesTotal counts persisted strikes, labeled by role:
	// "seller" or "buyer".
	StrikesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_strikes_total",
		Help: "Total number of strikes recorded",
	}, []string{"role"})

	// AccountsBlocked counts seller accounts transitioned to blocked.
	AccountsBlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatguard_accounts_blocked_total",
		Help: "Total number of seller accounts blocked by strike escalation",
	})

	// EnforcementErrors counts failed strike registrations.
	EnforcementErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatguard_enforcement_errors_total",
		Help: "Total number of strike registrations that failed",
	})

	// ClassifyLatency records the time spent classifying one message.
	ClassifyLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatguard_classify_latency_seconds",
		Help:    "Message classification latency in seconds",
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	})
)

func init() {
	prometheus.MustRegister(
		MessagesTotal,
		FlagsTotal,
		StrikesTotal,
		AccountsBlocked,
		EnforcementErrors,
		ClassifyLatency,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
