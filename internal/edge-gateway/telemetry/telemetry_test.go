package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	geomw "github.com/radieske/sportsbook-edge/internal/geo/middleware"
	httpapi "github.com/radieske/sportsbook-edge/internal/subgraph-proxy/http"
)

func TestObserveSubgraph(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSubgraph(httpapi.Result{Outcome: httpapi.OutcomeOK, Duration: 120 * time.Millisecond})
	m.ObserveSubgraph(httpapi.Result{Outcome: "timeout", Duration: 25 * time.Second})
	m.ObserveSubgraph(httpapi.Result{Outcome: "forbidden"})
	m.RateLimited()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubgraphRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubgraphRequests.WithLabelValues("forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubgraphRequests.WithLabelValues(OutcomeRateLimited)))
	// forbidden não chega ao upstream
	assert.Equal(t, 2, testutil.CollectAndCount(m.UpstreamDuration))
}

func TestObserveGeo(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveGeo(geomw.Event{Result: geomw.ResultBlocked})
	m.ObserveGeo(geomw.Event{Result: geomw.ResultBlocked})
	m.ObserveGeo(geomw.Event{Result: geomw.ResultExcluded})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GeoDecisions.WithLabelValues("blocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeoDecisions.WithLabelValues("excluded")))
}
