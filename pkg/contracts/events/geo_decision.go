package events

import "time"

// Evento publicado no tópico "geo_decisions" quando uma página é bloqueada
type GeoDecision struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	Country   string    `json:"country"`
	Path      string    `json:"path"`
	Blocked   bool      `json:"blocked"`
	Ts        time.Time `json:"ts"`
}
