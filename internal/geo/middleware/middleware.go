package middleware

import (
	"net/http"
	"regexp"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/radieske/sportsbook-edge/internal/geo/locate"
	"github.com/radieske/sportsbook-edge/internal/geo/policy"
)

// Resultados reportados em Event.Result
const (
	ResultAllowed  = "allowed"
	ResultBlocked  = "blocked"
	ResultUnknown  = "unknown" // sem sinal de país, passa (fail-open)
	ResultExcluded = "excluded"
)

// prefixos que nunca passam pela decisão: rotas de API, assets internos do build e ícones
var excludedPrefixes = []string{
	"/api",
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
	"/favicon.png",
	"/logo.png",
}

var staticExt = regexp.MustCompile(`\.(?:ico|png|svg|webp)$`)

// Excluded informa se o caminho fica fora do bloqueio geográfico
func Excluded(path string) bool {
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return staticExt.MatchString(path)
}

// Event descreve a decisão tomada para uma requisição
type Event struct {
	RequestID string
	Country   string
	Path      string
	Result    string
	Redirect  bool
}

// Geo redireciona páginas de países bloqueados para a página de aviso.
// onDecision é opcional (métricas/auditoria).
func Geo(p *policy.Policy, loc locate.Locator, onDecision func(Event)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ev := Event{RequestID: chimw.GetReqID(r.Context()), Path: r.URL.Path}

			if Excluded(r.URL.Path) {
				ev.Result = ResultExcluded
				report(onDecision, ev)
				next.ServeHTTP(w, r)
				return
			}

			country := ""
			if loc != nil {
				country = loc.Country(r)
			}
			d := p.Decide(country, r.URL.Path)
			ev.Country, ev.Redirect = d.Country, d.Redirect
			switch {
			case d.Blocked:
				ev.Result = ResultBlocked
			case d.Country == "":
				ev.Result = ResultUnknown
			default:
				ev.Result = ResultAllowed
			}
			report(onDecision, ev)

			if d.Redirect {
				http.Redirect(w, r, p.NoticePath(), http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func report(fn func(Event), ev Event) {
	if fn != nil {
		fn(ev)
	}
}
