package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "smashroom"

var (
	once sync.Once

	bookingMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_mutations_total",
			Help:      "Count of booking mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	paymentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_transitions_total",
			Help:      "Count of payment status changes by target status.",
		},
		[]string{"status"},
	)

	availabilityQueries = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_query_duration_seconds",
			Help:      "Time spent computing availability.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type", "cache"},
	)

	bookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_events_total",
			Help:      "Count of booking events by direction and type.",
		},
		[]string{"direction", "type"},
	)

	httpRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingMutations, paymentTransitions, availabilityQueries, bookingEvents, httpRequests)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncBookingMutation(operation, outcome string) {
	bookingMutations.WithLabelValues(operation, outcome).Inc()
}

func IncPaymentTransition(status string) {
	paymentTransitions.WithLabelValues(status).Inc()
}

func ObserveAvailability(queryType string, cached bool, started time.Time) {
	availabilityQueries.WithLabelValues(queryType, strconv.FormatBool(cached)).Observe(time.Since(started).Seconds())
}

func IncBookingEvent(direction, eventType string) {
	bookingEvents.WithLabelValues(direction, eventType).Inc()
}

func ObserveHTTPRequest(method, route string, status int, started time.Time) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
}
