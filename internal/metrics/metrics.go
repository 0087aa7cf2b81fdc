package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the domain counters exported on /metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	cartOperations  *prometheus.CounterVec
	clamped         *prometheus.CounterVec
	ordersPlaced    *prometheus.CounterVec
	ordersRejected  *prometheus.CounterVec
	catalogCache    *prometheus.CounterVec
}

func New(reg prometheus.Registerer, service string) *Metrics {
	if reg == nil {
		return nil
	}
	constLabels := prometheus.Labels{"service": service}
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of http requests in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "code"}),
		cartOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cart_operations_total",
			Help:        "Cart mutations by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		clamped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cart_quantity_clamped_total",
			Help:        "Cart quantity changes capped by the stock ceiling.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		ordersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "orders_placed_total",
			Help:        "Orders persisted by service type.",
			ConstLabels: constLabels,
		}, []string{"service_type"}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "orders_rejected_total",
			Help:        "Orders rejected by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		catalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "catalog_cache_lookups_total",
			Help:        "Catalog snapshot cache lookups by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.requestDuration,
		m.cartOperations,
		m.clamped,
		m.ordersPlaced,
		m.ordersRejected,
		m.catalogCache,
	)
	return m
}

func (m *Metrics) IncCartOperation(operation string) {
	if m == nil {
		return
	}
	m.cartOperations.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *Metrics) IncClamped(operation string) {
	if m == nil {
		return
	}
	m.clamped.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *Metrics) IncOrderPlaced(serviceType string) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(serviceType)).Inc()
}

func (m *Metrics) IncOrderRejected(reason string) {
	if m == nil {
		return
	}
	m.ordersRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *Metrics) IncCatalogCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.catalogCache.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware observes request duration labelled with the matched route
// template so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).
			Observe(time.Since(start).Seconds())
	})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
