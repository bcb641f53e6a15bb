package locate

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// VercelCountryHeader é o header de país injetado pela plataforma de hosting
const VercelCountryHeader = "x-vercel-ip-country"

// Locator descobre o país (ISO alpha-2) de uma requisição; "" quando desconhecido
type Locator interface {
	Country(r *http.Request) string
}

// Headers lê o país dos headers da plataforma, na ordem dada
type Headers []string

func (h Headers) Country(r *http.Request) string {
	for _, name := range h {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}

// Gated só consulta Locator quando Allow aprova a requisição.
// Usado para aceitar headers de país apenas de proxies confiáveis.
type Gated struct {
	Locator Locator
	Allow   func(r *http.Request) bool
}

func (g Gated) Country(r *http.Request) string {
	if g.Locator == nil || g.Allow == nil || !g.Allow(r) {
		return ""
	}
	return g.Locator.Country(r)
}

// Chain consulta cada locator até algum devolver um país
type Chain []Locator

func (c Chain) Country(r *http.Request) string {
	for _, l := range c {
		if l == nil {
			continue
		}
		if v := l.Country(r); v != "" {
			return v
		}
	}
	return ""
}

// GeoIP resolve o país pelo IP do cliente usando a base GeoLite2 local
type GeoIP struct {
	reader *geoip2.Reader
}

// OpenGeoIP abre a base .mmdb (ex: GeoLite2-Country.mmdb)
func OpenGeoIP(path string) (*GeoIP, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database: %w", err)
	}
	return &GeoIP{reader: reader}, nil
}

// Close libera a base
func (g *GeoIP) Close() error { return g.reader.Close() }

// Country devolve "" para IP inválido, privado/loopback ou não encontrado
func (g *GeoIP) Country(r *http.Request) string {
	code, err := g.Lookup(clientIP(r))
	if err != nil {
		return ""
	}
	return code
}

// Lookup retorna o código ISO do país para o IP
func (g *GeoIP) Lookup(ipStr string) (string, error) {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return "", fmt.Errorf("invalid IP address: %q", ipStr)
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return "", nil
	}
	record, err := g.reader.Country(ip)
	if err != nil {
		return "", fmt.Errorf("geoip lookup: %w", err)
	}
	return record.Country.IsoCode, nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
