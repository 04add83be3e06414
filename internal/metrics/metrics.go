package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	roundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackjack_rounds_total",
			Help: "Settled rounds by outcome",
		},
		[]string{"outcome"},
	)

	chipsWagered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackjack_chips_wagered_total",
			Help: "Chips staked on settled rounds, doubles included",
		},
	)

	chipsPurchased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blackjack_chips_purchased_total",
			Help: "Chips added through /buy",
		},
	)

	advisorTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blackjack_advisor_requests_total",
			Help: "Advisor requests by result",
		},
		[]string{"result"},
	)

	advisorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blackjack_advisor_request_duration_ms",
			Help:    "Advisor request duration in milliseconds",
			Buckets: prometheus.ExponentialBuckets(50, 2, 8),
		},
	)
)

// RecordRound counts a settled round. outcome is the Outcome's string form.
func RecordRound(outcome string, bet int) {
	roundsTotal.WithLabelValues(outcome).Inc()
	chipsWagered.Add(float64(bet))
}

func RecordPurchase(amount int) {
	chipsPurchased.Add(float64(amount))
}

// RecordAdvisor counts an advisor call; result is "success", "fail" or "disabled".
func RecordAdvisor(result string, started time.Time) {
	switch result {
	case "success", "disabled":
	default:
		result = "fail"
	}
	advisorTotal.WithLabelValues(result).Inc()
	if result != "disabled" {
		advisorDuration.Observe(float64(time.Since(started).Milliseconds()))
	}
}
