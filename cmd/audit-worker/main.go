package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/internal/edge-audit/consumer"
	"github.com/radieske/sportsbook-edge/internal/edge-audit/counters"
	"github.com/radieske/sportsbook-edge/internal/edge-audit/repository"
	"github.com/radieske/sportsbook-edge/internal/shared/cache"
	"github.com/radieske/sportsbook-edge/internal/shared/config"
	"github.com/radieske/sportsbook-edge/internal/shared/db"
	"github.com/radieske/sportsbook-edge/internal/shared/kafka"
	"github.com/radieske/sportsbook-edge/internal/shared/logger"
	"github.com/radieske/sportsbook-edge/internal/shared/metrics"
)

const groupID = "edge-audit"

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

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	repo := repository.NewPostgresRepo(pg)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("audit schema", zap.Error(err))
	}
	ctrs := counters.NewRedisCounters(rdb)

	// Um consumer group para os dois tópicos de auditoria
	reader := kafka.NewReader(kafka.Brokers(cfg.KafkaBrokers), groupID,
		cfg.TopicSubgraphRequests, cfg.TopicGeoDecisions)
	defer reader.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "edge_audit_messages_consumed_total", Help: "mensagens consumidas"}, []string{"topic"})
	persist := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "edge_audit_db_writes_total", Help: "escritas no banco"}, []string{"topic"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "edge_audit_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, errorsBy)

	proc := &consumer.Processor{
		Log:           log,
		Reader:        reader,
		Store:         repo,
		Counters:      ctrs,
		TopicSubgraph: cfg.TopicSubgraphRequests,
		TopicGeo:      cfg.TopicGeoDecisions,
		OnConsumed:    func(topic string) { consumed.WithLabelValues(topic).Inc() },
		OnPersist:     func(topic string) { persist.WithLabelValues(topic).Inc() },
		OnError:       func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas, health check e contadores
	health := metrics.All(
		func(ctx context.Context) error { return pg.PingContext(ctx) },
		cache.Ping(rdb),
	)
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, health,
		map[string]http.Handler{"/stats": counters.Handler(ctrs, log)},
		func(err error) { log.Error("metrics server failed", zap.Error(err)) },
	)
	defer msrv.Close()
	log.Info("metrics/health listening", zap.String("addr", msrv.Addr))

	log.Info("audit-worker started",
		zap.Strings("topics", []string{cfg.TopicSubgraphRequests, cfg.TopicGeoDecisions}),
	)
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("audit-worker stopped")
}
