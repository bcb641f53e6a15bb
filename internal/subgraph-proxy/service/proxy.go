package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/allowlist"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/dto"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/upstream"
)

// Forwarder faz a chamada ao subgraph (implementado por upstream.Client)
type Forwarder interface {
	Forward(ctx context.Context, target, query string, variables json.RawMessage) (*upstream.Response, error)
}

// Proxy valida a requisição e encaminha para um host permitido.
// Não guarda estado entre chamadas.
type Proxy struct {
	Hosts    allowlist.HostSet
	Upstream Forwarder
}

// NewProxy monta o proxy com o allow-list injetado
func NewProxy(hosts allowlist.HostSet, f Forwarder) *Proxy {
	return &Proxy{Hosts: hosts, Upstream: f}
}

// Result é o resultado de um Forward bem-sucedido (inclusive pass-through de erro upstream)
type Result struct {
	Host     string
	Response *upstream.Response
}

// Forward aplica validação e allow-list antes de qualquer chamada de rede
// e faz no máximo uma chamada ao upstream.
func (p *Proxy) Forward(ctx context.Context, req dto.ForwardRequest) (Result, error) {
	pr, ok := req.Parse()
	if !ok {
		return Result{}, newError(InvalidRequest, "Missing or invalid url or query", nil)
	}

	host, allowed, err := p.Hosts.Check(pr.URL)
	if err != nil {
		return Result{}, newError(Internal, err.Error(), err)
	}
	if !allowed {
		return Result{Host: host}, newError(Forbidden, "Subgraph URL not allowed", nil)
	}

	res, err := p.Upstream.Forward(ctx, pr.URL, pr.Query, pr.Variables)
	if err != nil {
		var uerr *upstream.UnreachableError
		if errors.As(err, &uerr) {
			kind := UpstreamUnreachable
			if uerr.Timeout {
				kind = UpstreamTimeout
			}
			return Result{Host: host}, newError(kind, uerr.Error(), err)
		}
		return Result{Host: host}, newError(Internal, err.Error(), err)
	}
	return Result{Host: host, Response: res}, nil
}
