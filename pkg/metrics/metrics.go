package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the marketplace collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_market",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"service", "method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creator_market",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"service", "method", "route"},
	)

	settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_market",
			Subsystem: "settlement",
			Name:      "purchases_total",
			Help:      "Purchase settlements by result.",
		},
		[]string{"result"},
	)

	salesSummaryCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_market",
			Subsystem: "analytics",
			Name:      "sales_summary_cache_total",
			Help:      "Sales summary cache lookups by result.",
		},
		[]string{"result"},
	)

	outboxPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_market",
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox events relayed to the broker by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		settlements,
		salesSummaryCache,
		outboxPublished,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveRequest(service, method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(service, method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(service, method, route).Observe(duration.Seconds())
}

// RecordSettlement counts a purchase attempt. result is one of
// "settled", "free", "already_owned" or "failed".
func RecordSettlement(result string) {
	settlements.WithLabelValues(result).Inc()
}

func RecordSalesSummaryCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	salesSummaryCache.WithLabelValues(result).Inc()
}

func RecordOutboxPublish(success bool) {
	result := "failed"
	if success {
		result = "published"
	}
	outboxPublished.WithLabelValues(result).Inc()
}
