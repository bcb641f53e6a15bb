package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/internal/edge-gateway/appconfig"
	"github.com/radieske/sportsbook-edge/internal/edge-gateway/trust"
	"github.com/radieske/sportsbook-edge/internal/geo/locate"
	geomw "github.com/radieske/sportsbook-edge/internal/geo/middleware"
	"github.com/radieske/sportsbook-edge/internal/geo/notice"
	"github.com/radieske/sportsbook-edge/internal/geo/policy"
	"github.com/radieske/sportsbook-edge/internal/shared/logger"
	httpapi "github.com/radieske/sportsbook-edge/internal/subgraph-proxy/http"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/ratelimit"
)

// Deps reúne o que o gateway monta nas rotas
type Deps struct {
	Log *zap.Logger

	Subgraph *httpapi.Server
	Limiter  ratelimit.Limiter // nil desliga o rate limit
	Ceiling  time.Duration     // teto por request em /api

	Policy  *policy.Policy
	Locator locate.Locator
	Support notice.Support

	App         appconfig.PublicConfig
	CORSOrigins []string

	Frontend http.Handler // destino das páginas (reverse proxy)

	// Proxies define de quem o X-Forwarded-For vale; nil não confia em ninguém
	Proxies *trust.Proxies

	OnGeoDecision func(geomw.Event)
	OnRateLimited func()
}

// New monta o roteador público do gateway
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(d.Proxies.Middleware)
	r.Use(logger.Requests(d.Log))
	r.Use(httpapi.Recover(d.Log))
	// preflight responde aqui, antes do roteamento por método
	r.Use(cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}).Handler)
	r.Use(geomw.Geo(d.Policy, d.Locator, d.OnGeoDecision))

	r.Group(func(r chi.Router) {
		if d.Ceiling > 0 {
			r.Use(chimw.Timeout(d.Ceiling))
		}

		var post []func(http.Handler) http.Handler
		if d.Limiter != nil {
			post = append(post, ratelimit.Middleware(d.Limiter, d.Log, d.OnRateLimited))
		}
		d.Subgraph.Mount(r, post...)
		r.Get("/api/config", appconfig.Handler(d.App))
	})

	r.Method(http.MethodGet, d.Policy.NoticePath(), notice.Handler(d.Log, d.Policy, d.Support))

	if d.Frontend != nil {
		r.NotFound(d.Frontend.ServeHTTP)
		r.MethodNotAllowed(d.Frontend.ServeHTTP)
	}
	return r
}

// Frontend cria o reverse proxy para a origem do frontend
func Frontend(target string, log *zap.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse FRONTEND_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("FRONTEND_URL must be an absolute URL")
	}

	rp := httputil.NewSingleHostReverseProxy(u)
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn("frontend unreachable", zap.String("path", r.URL.Path), zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
	}
	return rp, nil
}
