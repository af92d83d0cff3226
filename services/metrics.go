package services

import "github.com/prometheus/client_golang/prometheus"

var (
	streakCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_completions_total",
			Help: "Streak completions by result",
		},
		[]string{"result"},
	)
	rewriteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewrite_requests_total",
			Help: "Compassionate rewrite attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// InitPrometheus registers the domain metrics. Call this from main.go
func InitPrometheus() {
	prometheus.MustRegister(streakCompletions)
	prometheus.MustRegister(rewriteRequests)
}
