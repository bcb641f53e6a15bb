package trust

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Proxies é o conjunto de peers cujos headers de encaminhamento valem
// (X-Forwarded-For, X-Real-IP, True-Client-IP e headers de país da plataforma)
type Proxies struct {
	prefixes []netip.Prefix
}

// Parse interpreta a lista de CIDRs; lista vazia não confia em ninguém
func Parse(cidrs []string) (*Proxies, error) {
	p := &Proxies{}
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", c, err)
		}
		p.prefixes = append(p.prefixes, prefix.Masked())
	}
	return p, nil
}

// Contains diz se o peer (RemoteAddr) é um proxy confiável
func (p *Proxies) Contains(remoteAddr string) bool {
	if p == nil {
		return false
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// Middleware marca a requisição vinda de proxy confiável e só então aplica
// o RealIP; de qualquer outro peer o RemoteAddr fica intacto.
func (p *Proxies) Middleware(next http.Handler) http.Handler {
	realIP := chimw.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !p.Contains(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, true))
		realIP.ServeHTTP(w, r)
	})
}

// Forwarded diz se a requisição passou pelo Middleware vinda de proxy confiável
func Forwarded(r *http.Request) bool {
	v, _ := r.Context().Value(ctxKey{}).(bool)
	return v
}
