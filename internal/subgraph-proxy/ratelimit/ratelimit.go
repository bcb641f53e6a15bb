package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decide se o cliente identificado por key pode seguir
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// IdleTTL é o tempo sem requisições após o qual o bucket de um cliente é descartado.
// Bucket parado por mais de burst/rps já está cheio.
const IdleTTL = 10 * time.Minute

// Memory é um token bucket por cliente, local ao processo
type Memory struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int

	now func() time.Time
}

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewMemory cria o limiter local com rps requisições/s e rajada burst
func NewMemory(rps, burst int) *Memory {
	if burst < 1 {
		burst = 1
	}
	return &Memory{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	c, ok := m.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(m.rps, m.burst)}
		m.clients[key] = c
	}
	c.lastSeen = now
	m.mu.Unlock()

	return c.lim.AllowN(now, 1), nil
}

// Len devolve quantos clientes estão sendo acompanhados
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Sweep remove os clientes sem requisições há mais de idle
func (m *Memory) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, c := range m.clients {
		if c.lastSeen.Before(cutoff) {
			delete(m.clients, key)
			removed++
		}
	}
	return removed
}

// Run varre os buckets parados a cada interval até o contexto ser cancelado
func (m *Memory) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idle)
		}
	}
}

// Redis é uma janela fixa compartilhada entre réplicas do gateway.
// Chave: ratelimit:subgraph:{cliente}:{início da janela}
type Redis struct {
	Client *redis.Client
	Limit  int
	Window time.Duration

	now func() time.Time
}

// NewRedis cria o limiter com limit requisições por janela
func NewRedis(c *redis.Client, limit int, window time.Duration) *Redis {
	if window <= 0 {
		window = time.Second
	}
	return &Redis{Client: c, Limit: limit, Window: window, now: time.Now}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	start := r.now().Truncate(r.Window).Unix()
	k := fmt.Sprintf("ratelimit:subgraph:%s:%d", key, start)

	var incr *redis.IntCmd
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, 2*r.Window)
		return nil
	})
	if err != nil {
		return true, err
	}
	return incr.Val() <= int64(r.Limit), nil
}

// Middleware responde 429 quando o limiter nega.
// Falha do limiter (ex: Redis fora) deixa a requisição passar.
func Middleware(l Limiter, log *zap.Logger, onLimited func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), clientKey(r))
			if err != nil {
				log.Warn("rate limiter unavailable", zap.Error(err))
			}
			if !ok {
				if onLimited != nil {
					onLimited()
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey usa o IP do cliente (RemoteAddr já ajustado pelo RealIP)
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
