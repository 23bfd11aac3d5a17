package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "submissions_total",
			Help:      "Reservation submissions by outcome.",
		},
		[]string{"outcome"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "logins_total",
			Help:      "Dashboard login attempts by result.",
		},
		[]string{"result"},
	)

	exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "exports_total",
			Help:      "Reservation exports by format.",
		},
		[]string{"format"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, submissions, logins, exports)
	})
}

func IncHTTP(endpoint string) { httpRequests.WithLabelValues(endpoint).Inc() }

func IncSubmission(outcome string) { submissions.WithLabelValues(outcome).Inc() }

func IncLogin(result string) { logins.WithLabelValues(result).Inc() }

func IncExport(format string) { exports.WithLabelValues(format).Inc() }
