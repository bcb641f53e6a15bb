package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/dto"
	"github.com/radieske/sportsbook-edge/internal/subgraph-proxy/service"
)

// Path é a rota pública do proxy
const Path = "/api/subgraph"

// Outcomes além dos service.Kind
const (
	OutcomeOK          = "ok"
	OutcomePassthrough = "passthrough"
	OutcomeTooLarge    = "too_large"
)

// Result descreve uma requisição atendida, usado para métricas e auditoria
type Result struct {
	RequestID string
	Outcome   string
	Host      string
	Status    int
	Duration  time.Duration
}

// Server expõe o proxy de subgraph via HTTP
type Server struct {
	log     *zap.Logger
	proxy   *service.Proxy
	maxBody int64

	OnResult func(Result) // métricas/auditoria
}

// NewServer instancia o servidor HTTP do proxy
func NewServer(log *zap.Logger, p *service.Proxy, maxBody int64) *Server {
	return &Server{log: log, proxy: p, maxBody: maxBody}
}

// Mount registra GET (health) e POST (forward) em Path.
// Os middlewares extras valem só para o POST (ex: rate limit).
func (s *Server) Mount(r chi.Router, post ...func(http.Handler) http.Handler) {
	r.Route(Path, func(r chi.Router) {
		r.Get("/", s.health)
		r.With(post...).Post("/", s.forward)
	})
}

// Router retorna um roteador só com as rotas do proxy
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	s.Mount(r)
	return r
}

// health confirma que o proxy está de pé
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{OK: true, Message: "Subgraph proxy ready"})
}

// forward valida, encaminha e devolve a resposta do subgraph
func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := Result{RequestID: middleware.GetReqID(r.Context())}
	defer func() {
		res.Duration = time.Since(start)
		if s.OnResult != nil {
			s.OnResult(res)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			res.Outcome, res.Status = OutcomeTooLarge, http.StatusRequestEntityTooLarge
			writeJSON(w, res.Status, dto.ErrorResponse{Error: "Request body too large"})
			return
		}
		s.fail(w, &res, service.AsError(fmt.Errorf("read body: %w", err)))
		return
	}

	var req dto.ForwardRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			// JSON válido mas não é objeto
			s.fail(w, &res, &service.Error{Kind: service.InvalidRequest, Msg: "Missing or invalid url or query"})
			return
		}
		s.fail(w, &res, service.AsError(err))
		return
	}

	out, err := s.proxy.Forward(r.Context(), req)
	res.Host = out.Host
	if err != nil {
		s.fail(w, &res, service.AsError(err))
		return
	}

	up := out.Response
	if !up.OK() {
		// pass-through: status, corpo e content-type do upstream
		ct := up.ContentType
		if ct == "" {
			ct = "application/json"
		}
		res.Outcome, res.Status = OutcomePassthrough, up.Status
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(up.Status)
		_, _ = w.Write(up.Body)
		return
	}

	res.Outcome, res.Status = OutcomeOK, http.StatusOK
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	var buf bytes.Buffer
	if err := json.Compact(&buf, up.Body); err != nil {
		// corpo não-JSON vai como veio
		_, _ = w.Write(up.Body)
		return
	}
	_, _ = w.Write(buf.Bytes())
}

// fail escreve {"error": msg} com o status do tipo de erro
func (s *Server) fail(w http.ResponseWriter, res *Result, e *service.Error) {
	res.Outcome, res.Status = string(e.Kind), e.Status()
	switch e.Kind {
	case service.InvalidRequest, service.Forbidden:
		s.log.Debug("subgraph request rejected",
			zap.String("outcome", res.Outcome),
			zap.String("host", res.Host),
		)
	default:
		s.log.Warn("subgraph proxy failed",
			zap.String("outcome", res.Outcome),
			zap.String("host", res.Host),
			zap.Error(e),
		)
	}
	writeJSON(w, res.Status, dto.ErrorResponse{Error: e.Msg})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
