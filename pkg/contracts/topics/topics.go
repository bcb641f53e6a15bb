package topics

// Tópicos de auditoria do gateway
const (
	SubgraphRequests = "subgraph_requests"
	GeoDecisions     = "geo_decisions"
)
