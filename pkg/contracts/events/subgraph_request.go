package events

import "time"

// Evento publicado no tópico "subgraph_requests" a cada POST /api/subgraph
type SubgraphRequest struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Host       string    `json:"host,omitempty"`
	Outcome    string    `json:"outcome"` // ok | passthrough | invalid | forbidden | timeout | unreachable | internal | rate_limited
	Status     int       `json:"status"`
	DurationMs int64     `json:"duration_ms"`
	Ts         time.Time `json:"ts"`
}
