package gateway

import "github.com/prometheus/client_golang/prometheus"

// clientMetrics counts gateway traffic. The counters work unregistered, so
// a nil Registerer simply means nothing scrapes them.
type clientMetrics struct {
	requests  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	refreshes prometheus.Counter
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Backend requests issued, by HTTP method.",
		}, []string{"method"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "request_failures_total",
			Help:      "Backend requests that failed in transport or returned >= 400.",
		}, []string{"method"}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "gateway",
			Name:      "token_refreshes_total",
			Help:      "Successful access-token refresh exchanges.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.failures, m.refreshes)
	}
	return m
}
