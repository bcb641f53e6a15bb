package allowlist

import (
	"fmt"
	"net/url"
)

// DefaultHosts são os hosts de subgraph aceitos pelo proxy
var DefaultHosts = []string{
	"thegraph-1.onchainfeed.org",
	"thegraph.onchainfeed.org",
	"thegraph.azuro.org",
}

// HostSet é um conjunto imutável de hostnames permitidos.
// A comparação é por igualdade exata (case-sensitive).
type HostSet struct {
	hosts map[string]struct{}
}

// New constrói o conjunto; a lista é copiada e não pode ser alterada depois
func New(hosts ...string) HostSet {
	m := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		m[h] = struct{}{}
	}
	return HostSet{hosts: m}
}

// Default retorna o conjunto com DefaultHosts
func Default() HostSet { return New(DefaultHosts...) }

// Len retorna a quantidade de hosts permitidos
func (s HostSet) Len() int { return len(s.hosts) }

// Allows informa se o hostname está no conjunto
func (s HostSet) Allows(hostname string) bool {
	_, ok := s.hosts[hostname]
	return ok
}

// Check interpreta a URL e devolve o hostname e se ele é permitido.
// Erro quando a URL não é absoluta http(s) com host.
func (s HostSet) Check(rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false, fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}
	host := u.Hostname()
	if host == "" {
		return "", false, fmt.Errorf("invalid url %q: missing host", rawURL)
	}
	return host, s.Allows(host), nil
}
