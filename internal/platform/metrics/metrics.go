package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "grooming"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ledgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_operations_total",
		Help:      "Package ledger mutations by operation and result",
	}, []string{"operation", "result"})

	packagesExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "packages_expired_total",
		Help:      "Packages moved to expired by the sweep worker",
	})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notifications handed to the delivery port by channel and status",
	}, []string{"channel", "status"})

	dashboardDegraded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_degraded_total",
		Help:      "Dashboard reads answered with a fallback value after a storage error",
	}, []string{"view"})
)

// ObserveHTTPRequest registra un request ya resuelto por el router.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveLedger cuenta mutaciones del ledger por operación y resultado.
func ObserveLedger(operation, result string) {
	ledgerOperations.WithLabelValues(operation, result).Inc()
}

func AddExpired(n int64) {
	if n <= 0 {
		return
	}
	packagesExpired.Add(float64(n))
}

func ObserveNotification(channel, status string) {
	notificationsTotal.WithLabelValues(channel, status).Inc()
}

func ObserveDashboardDegraded(view string) {
	dashboardDegraded.WithLabelValues(view).Inc()
}
