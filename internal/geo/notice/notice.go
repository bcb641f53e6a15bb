package notice

import (
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/radieske/sportsbook-edge/internal/geo/policy"
)

// nomes usados na página; os demais vêm do CLDR em inglês
var countryNames = map[string]string{
	"US": "USA",
	"RU": "Russian Federation",
	"CN": "China",
	"TR": "Turkey",
}

var regionNamer = display.Regions(language.English)

// CountryName devolve o nome legível de um código ISO alpha-2
func CountryName(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if n, ok := countryNames[code]; ok {
		return n
	}
	if reg, err := language.ParseRegion(code); err == nil {
		if n := regionNamer.Name(reg); n != "" {
			return n
		}
	}
	return code
}

// BlockedList junta os nomes dos países bloqueados ("USA, Russian Federation, ...")
func BlockedList(p *policy.Policy) string {
	codes := p.BlockedCodes()
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		names = append(names, CountryName(c))
	}
	return strings.Join(names, ", ")
}

// Support são os contatos opcionais exibidos na página
type Support struct {
	TelegramURL string
	Email       string
}

type pageData struct {
	Blocked string
	Support Support
}

var page = template.Must(template.New("geo").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Geo zone restriction</title>
<meta name="description" content="Access from your region is restricted.">
</head>
<body>
<main>
<p>Geo zone restriction</p>
<h1>Access restricted</h1>
<p>It seems you are trying to connect from a restricted country.</p>
<p>Access from the following countries is prohibited: <strong>{{.Blocked}}</strong></p>
<p>If you think you shouldn't see this message, contact support.</p>
{{- if .Support.TelegramURL}}
<a href="{{.Support.TelegramURL}}" target="_blank" rel="noopener noreferrer">Telegram</a>
{{- end}}
{{- if .Support.Email}}
<a href="mailto:{{.Support.Email}}">{{.Support.Email}}</a>
{{- end}}
<a href="/">Back to home</a>
</main>
</body>
</html>
`))

// Handler serve a página de aviso de bloqueio geográfico
func Handler(log *zap.Logger, p *policy.Policy, support Support) http.Handler {
	data := pageData{Blocked: BlockedList(p), Support: support}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := page.Execute(w, data); err != nil {
			log.Warn("render geo notice", zap.Error(err))
		}
	})
}
