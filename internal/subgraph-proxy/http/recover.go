package httpapi

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/dto"
)

// Recover converte panics em 500 {"error": msg}
func Recover(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				msg := fmt.Sprint(rec)
				if err, ok := rec.(error); ok {
					msg = err.Error()
				}
				if msg == "" {
					msg = "Proxy error"
				}
				writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msg})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
