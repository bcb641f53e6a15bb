package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/internal/edge-audit/publisher"
	"github.com/radieske/sportsbook-edge/internal/edge-gateway/appconfig"
	"github.com/radieske/sportsbook-edge/internal/edge-gateway/router"
	"github.com/radieske/sportsbook-edge/internal/edge-gateway/telemetry"
	"github.com/radieske/sportsbook-edge/internal/edge-gateway/trust"
	"github.com/radieske/sportsbook-edge/internal/geo/locate"
	geomw "github.com/radieske/sportsbook-edge/internal/geo/middleware"
	"github.com/radieske/sportsbook-edge/internal/geo/notice"
	"github.com/radieske/sportsbook-edge/internal/geo/policy"
	"github.com/radieske/sportsbook-edge/internal/shared/cache"
	"github.com/radieske/sportsbook-edge/internal/shared/config"
	"github.com/radieske/sportsbook-edge/internal/shared/kafka"
	"github.com/radieske/sportsbook-edge/internal/shared/logger"
	"github.com/radieske/sportsbook-edge/internal/shared/metrics"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/allowlist"
	httpapi "github.com/radieske/sportsbook-edge/internal/subgraph-proxy/http"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/ratelimit"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/service"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/upstream"
	"github.com/radieske/sportsbook-edge/pkg/contracts/chains"
	"github.com/radieske/sportsbook-edge/pkg/contracts/events"
	"github.com/radieske/sportsbook-edge/pkg/normalize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var checks []metrics.HealthFunc

	// Rate limit: Redis compartilha a janela entre réplicas
	var limiter ratelimit.Limiter
	switch {
	case cfg.Subgraph.RateLimitRPS == 0:
	case cfg.Subgraph.RateLimiter == "redis":
		var rdb *redis.Client
		rdb, err = cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("redis connect", zap.Error(err))
		}
		defer rdb.Close()
		checks = append(checks, cache.Ping(rdb))
		limiter = ratelimit.NewRedis(rdb, cfg.Subgraph.RateLimitRPS, time.Second)
	default:
		mem := ratelimit.NewMemory(cfg.Subgraph.RateLimitRPS, cfg.Subgraph.RateLimitBurst)
		go mem.Run(ctx, time.Minute, ratelimit.IdleTTL)
		limiter = mem
	}

	// X-Forwarded-For e headers de país só valem vindos desses peers
	proxies, err := trust.Parse(cfg.TrustedProxies)
	if err != nil {
		log.Fatal("trusted proxies", zap.Error(err))
	}

	// País: headers da plataforma (só de proxy confiável) e, se houver base, GeoLite2
	var loc locate.Locator = locate.Gated{
		Locator: locate.Headers(cfg.Geo.CountryHeaders),
		Allow:   trust.Forwarded,
	}
	if cfg.Geo.GeoIPDBPath != "" {
		gip, err := locate.OpenGeoIP(cfg.Geo.GeoIPDBPath)
		if err != nil {
			log.Warn("geoip disabled", zap.String("path", cfg.Geo.GeoIPDBPath), zap.Error(err))
		} else {
			defer gip.Close()
			loc = locate.Chain{loc, gip}
		}
	}

	// Auditoria via Kafka, assíncrona
	var pub publisher.Publisher = publisher.Nop{}
	if cfg.AuditEnabled {
		brokers := kafka.Brokers(cfg.KafkaBrokers)
		if cfg.Env == "local" || cfg.Env == "dev" {
			tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := kafka.EnsureTopics(tctx, brokers, cfg.TopicSubgraphRequests, cfg.TopicGeoDecisions); err != nil {
				log.Warn("ensure kafka topics", zap.Error(err))
			}
			cancel()
		}
		w := kafka.NewAsyncWriter(brokers, publisher.LogCompletion(log))
		pub = publisher.NewKafkaPublisher(w, log, cfg.TopicSubgraphRequests, cfg.TopicGeoDecisions)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("audit publisher close", zap.Error(err))
		}
	}()

	m := telemetry.New(prometheus.DefaultRegisterer)

	proxy := service.NewProxy(allowlist.Default(), upstream.New(cfg.Subgraph.Timeout))
	subgraph := httpapi.NewServer(log, proxy, cfg.Subgraph.MaxBodyBytes)
	subgraph.OnResult = func(res httpapi.Result) {
		m.ObserveSubgraph(res)
		pub.SubgraphRequest(events.SubgraphRequest{
			RequestID:  res.RequestID,
			Host:       res.Host,
			Outcome:    res.Outcome,
			Status:     res.Status,
			DurationMs: res.Duration.Milliseconds(),
		})
	}

	frontend, err := router.Frontend(cfg.FrontendURL, log)
	if err != nil {
		log.Fatal("frontend proxy", zap.Error(err))
	}

	app := appconfig.Build(cfg.App)
	geoPolicy := policy.New(cfg.Geo.NoticePath, cfg.Geo.BlockedCountries...)

	handler := router.New(router.Deps{
		Log:      log,
		Subgraph: subgraph,
		Limiter:  limiter,
		Ceiling:  cfg.Subgraph.HandlerCeiling,
		Policy:   geoPolicy,
		Locator:  loc,
		Support: notice.Support{
			TelegramURL: cfg.Geo.SupportTelegram,
			Email:       cfg.Geo.SupportEmail,
		},
		App:         app,
		CORSOrigins: cfg.CORSOrigins,
		Frontend:    frontend,
		Proxies:     proxies,
		OnGeoDecision: func(ev geomw.Event) {
			m.ObserveGeo(ev)
			if ev.Result == geomw.ResultBlocked {
				pub.GeoDecision(events.GeoDecision{
					RequestID: ev.RequestID,
					Country:   ev.Country,
					Path:      ev.Path,
					Blocked:   true,
				})
			}
		},
		OnRateLimited: m.RateLimited,
	})

	// Servidor HTTP para métricas e health check
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, metrics.All(checks...), nil, func(err error) {
		log.Error("metrics server failed", zap.Error(err))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Subgraph.HandlerCeiling + 5*time.Second,
	}

	chainName, _ := chains.Name(app.DefaultChainID)
	log.Info("edge-gateway listening",
		zap.String("addr", srv.Addr),
		zap.String("metrics_addr", msrv.Addr),
		zap.String("frontend", cfg.FrontendURL),
		zap.Strings("blocked_countries", geoPolicy.BlockedCodes()),
		zap.String("default_chain", chainName),
		zap.String("affiliate", normalize.ShortenAddress(app.AffiliateAddress, 4)),
		zap.Duration("subgraph_timeout", cfg.Subgraph.Timeout),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("gateway failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("gateway shutdown", zap.Error(err))
	}
	_ = msrv.Shutdown(shutdownCtx)
	log.Info("edge-gateway stopped")
}
