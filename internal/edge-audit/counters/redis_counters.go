package counters

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	prefix         = "audit:"
	subgraphPrefix = prefix + "subgraph:"
	geoPrefix      = prefix + "geo:blocked:"
)

// SubgraphKey é o contador de requests do proxy por outcome
func SubgraphKey(outcome string) string { return subgraphPrefix + outcome }

// GeoBlockedKey é o contador de bloqueios por país
func GeoBlockedKey(country string) string { return geoPrefix + strings.ToUpper(country) }

// RedisCounters mantém contadores agregados da auditoria no Redis
type RedisCounters struct {
	Client *redis.Client
}

// NewRedisCounters cria os contadores sobre um cliente Redis
func NewRedisCounters(c *redis.Client) *RedisCounters {
	return &RedisCounters{Client: c}
}

func (r *RedisCounters) IncSubgraph(ctx context.Context, outcome string) error {
	return r.Client.Incr(ctx, SubgraphKey(outcome)).Err()
}

func (r *RedisCounters) IncGeoBlocked(ctx context.Context, country string) error {
	return r.Client.Incr(ctx, GeoBlockedKey(country)).Err()
}

// Stats é o snapshot dos contadores
type Stats struct {
	Subgraph   map[string]int64 `json:"subgraph"`
	GeoBlocked map[string]int64 `json:"geo_blocked"`
}

// Snapshot varre as chaves audit:* e agrupa os valores
func (r *RedisCounters) Snapshot(ctx context.Context) (Stats, error) {
	st := Stats{Subgraph: map[string]int64{}, GeoBlocked: map[string]int64{}}

	var keys []string
	iter := r.Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return st, err
	}
	if len(keys) == 0 {
		return st, nil
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return st, err
	}
	for i, k := range keys {
		s, ok := vals[i].(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(k, subgraphPrefix):
			st.Subgraph[strings.TrimPrefix(k, subgraphPrefix)] = n
		case strings.HasPrefix(k, geoPrefix):
			st.GeoBlocked[strings.TrimPrefix(k, geoPrefix)] = n
		}
	}
	return st, nil
}

// Handler serve o snapshot em JSON (GET /stats)
func Handler(r *RedisCounters, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		st, err := r.Snapshot(ctx)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			log.Warn("stats snapshot failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "stats unavailable"})
			return
		}
		_ = json.NewEncoder(w).Encode(st)
	})
}
