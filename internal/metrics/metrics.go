package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart and filter activity plus HTTP latency.
type Storefront struct {
	cartOps     *prometheus.CounterVec
	filterOps   *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec
}

// New registers the storefront metrics on reg. A nil registerer yields a
// no-op recorder.
func New(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vitrina",
		Name:      "cart_operations_total",
		Help:      "Cart mutations by storefront and operation.",
	}, []string{"storefront", "op"})
	filterOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vitrina",
		Name:      "filter_operations_total",
		Help:      "Filter toggles and resets by storefront and facet.",
	}, []string{"storefront", "facet"})
	httpLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vitrina",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	reg.MustRegister(cartOps, filterOps, httpLatency)
	return &Storefront{cartOps: cartOps, filterOps: filterOps, httpLatency: httpLatency}
}

func (m *Storefront) CartOp(storefront, op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(storefront), normalizeLabel(op)).Inc()
}

func (m *Storefront) FilterOp(storefront, facet string) {
	if m == nil || m.filterOps == nil {
		return
	}
	m.filterOps.WithLabelValues(normalizeLabel(storefront), normalizeLabel(facet)).Inc()
}

func (m *Storefront) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil || m.httpLatency == nil {
		return
	}
	m.httpLatency.WithLabelValues(normalizeLabel(route), method, statusClass(status)).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
