package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	InteractionsToggled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_toggled_total",
			Help: "Total number of interaction toggles processed",
		},
		[]string{"kind", "active"},
	)

	StoriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stories_created_total",
			Help: "Total number of stories created",
		},
	)

	StoriesPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stories_purged_total",
			Help: "Total number of expired stories removed by the sweep",
		},
	)

	XPAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP granted for qualifying interactions",
		},
		[]string{"action"},
	)
)

// Register registers all metrics. Call once from main.
func Register() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		InteractionsToggled,
		StoriesCreated,
		StoriesPurged,
		XPAwarded,
	)
}
