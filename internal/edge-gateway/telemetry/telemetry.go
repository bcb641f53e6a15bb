package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	geomw "github.com/radieske/sportsbook-edge/internal/geo/middleware"
	httpapi "github.com/radieske/sportsbook-edge/internal/subgraph-proxy/http"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/service"
)

// OutcomeRateLimited marca requisições barradas antes do proxy
const OutcomeRateLimited = "rate_limited"

// Metrics agrupa os coletores do gateway
type Metrics struct {
	SubgraphRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	GeoDecisions     *prometheus.CounterVec
}

// New cria e registra os coletores em reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubgraphRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "subgraph_proxy_requests_total",
			Help: "requests do proxy de subgraph por outcome",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "subgraph_proxy_upstream_duration_seconds",
			Help:    "duração das requests que chegaram ao upstream",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 25},
		}, []string{"outcome"}),
		GeoDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geo_decisions_total",
			Help: "decisões do middleware geo por resultado",
		}, []string{"result"}),
	}
	reg.MustRegister(m.SubgraphRequests, m.UpstreamDuration, m.GeoDecisions)
	return m
}

// ObserveSubgraph conta o request; a duração só vale quando houve chamada upstream
func (m *Metrics) ObserveSubgraph(res httpapi.Result) {
	m.SubgraphRequests.WithLabelValues(res.Outcome).Inc()
	switch res.Outcome {
	case httpapi.OutcomeOK, httpapi.OutcomePassthrough,
		string(service.UpstreamTimeout), string(service.UpstreamUnreachable):
		m.UpstreamDuration.WithLabelValues(res.Outcome).Observe(res.Duration.Seconds())
	}
}

// RateLimited conta um request barrado pelo limiter
func (m *Metrics) RateLimited() {
	m.SubgraphRequests.WithLabelValues(OutcomeRateLimited).Inc()
}

// ObserveGeo conta uma decisão do middleware geo
func (m *Metrics) ObserveGeo(ev geomw.Event) {
	m.GeoDecisions.WithLabelValues(ev.Result).Inc()
}
