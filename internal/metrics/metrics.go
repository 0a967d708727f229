package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dogmeet"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	appointmentsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_submitted_total",
			Help:      "Appointment submissions by result.",
		},
		[]string{"result"},
	)

	appointmentsListed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_listed_total",
			Help:      "Appointment listings by result.",
		},
		[]string{"result"},
	)

	appointmentsExported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_exported_total",
			Help:      "Workbook exports by result.",
		},
		[]string{"result"},
	)

	sheetsDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sheets_request_duration_seconds",
			Help:      "Latency of Google Sheets API calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, appointmentsSubmitted, appointmentsListed, appointmentsExported, sheetsDuration)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string, status int) {
	httpRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func IncSubmitted(err error) {
	appointmentsSubmitted.WithLabelValues(result(err)).Inc()
}

func IncListed(err error) {
	appointmentsListed.WithLabelValues(result(err)).Inc()
}

func IncExported(err error) {
	appointmentsExported.WithLabelValues(result(err)).Inc()
}

// ObserveSheets records how long a Sheets API call took.
func ObserveSheets(operation string, start time.Time, err error) {
	sheetsDuration.WithLabelValues(operation, result(err)).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
