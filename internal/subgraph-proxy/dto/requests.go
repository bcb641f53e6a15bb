package dto

import "encoding/json"

// ForwardRequest é o corpo cru do POST /api/subgraph.
// Os campos ficam como JSON cru para validar o tipo (url/query precisam ser string).
type ForwardRequest struct {
	URL       json.RawMessage `json:"url"`
	Query     json.RawMessage `json:"query"`
	Variables json.RawMessage `json:"variables,omitempty"` // opcional, default {}
}

// ProxyRequest é a requisição já validada
type ProxyRequest struct {
	URL       string
	Query     string
	Variables json.RawMessage
}

// Parse valida url e query como strings não vazias
func (r ForwardRequest) Parse() (ProxyRequest, bool) {
	u, ok := nonEmptyString(r.URL)
	if !ok {
		return ProxyRequest{}, false
	}
	q, ok := nonEmptyString(r.Query)
	if !ok {
		return ProxyRequest{}, false
	}
	return ProxyRequest{URL: u, Query: q, Variables: r.Variables}, true
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
