package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthFunc verifica as dependências do serviço
type HealthFunc func(ctx context.Context) error

// HealthTimeout limita cada verificação do /healthz
const HealthTimeout = 500 * time.Millisecond

// Handler monta o mux com /metrics, /healthz e rotas extras (ex: /stats)
func Handler(healthFn HealthFunc, extra map[string]http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), HealthTimeout)
		defer cancel()

		if healthFn != nil {
			if err := healthFn(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = fmt.Fprintf(w, "unhealthy: %v", err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	for path, h := range extra {
		mux.Handle(path, h)
	}
	return mux
}

// StartMetricsServer sobe o servidor de métricas em uma goroutine.
// Erros diferentes de ErrServerClosed vão para onErr.
func StartMetricsServer(port string, healthFn HealthFunc, extra map[string]http.Handler, onErr func(error)) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           Handler(healthFn, extra),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && onErr != nil {
			onErr(err)
		}
	}()

	return srv
}

// All combina verificações; a primeira falha vence
func All(checks ...HealthFunc) HealthFunc {
	return func(ctx context.Context) error {
		for _, c := range checks {
			if c == nil {
				continue
			}
			if err := c(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}
