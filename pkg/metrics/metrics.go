package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "villa_claudia",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status.",
		},
		[]string{"path", "status"},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "villa_claudia",
			Name:      "document_uploads_total",
			Help:      "Document upload submissions by outcome.",
		},
		[]string{"outcome"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "villa_claudia",
			Name:      "emails_total",
			Help:      "Emails by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	remindersSelected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "villa_claudia",
			Name:      "reminders_selected_total",
			Help:      "Bookings selected by the reminder scheduler.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, uploads, emailsSent, remindersSelected)
	})
}

func IncHTTP(path, status string) {
	httpRequests.WithLabelValues(path, status).Inc()
}

func IncUpload(outcome string) {
	uploads.WithLabelValues(outcome).Inc()
}

func IncEmail(kind, outcome string) {
	emailsSent.WithLabelValues(kind, outcome).Inc()
}

func IncRemindersSelected(n int) {
	remindersSelected.Add(float64(n))
}
