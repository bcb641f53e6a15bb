package policy

import "strings"

// DefaultBlocked são os países bloqueados por padrão (ISO 3166-1 alpha-2)
var DefaultBlocked = []string{"US", "RU", "CN", "TR"}

// DefaultNoticePath é a página de aviso para quem está bloqueado
const DefaultNoticePath = "/geo"

// Policy é o conjunto imutável de países bloqueados + a página de aviso
type Policy struct {
	blocked    map[string]struct{}
	codes      []string
	noticePath string
}

// New normaliza os códigos para maiúsculas; duplicados e vazios são ignorados
func New(noticePath string, codes ...string) *Policy {
	if noticePath == "" {
		noticePath = DefaultNoticePath
	}
	p := &Policy{blocked: make(map[string]struct{}, len(codes)), noticePath: noticePath}
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := p.blocked[c]; dup {
			continue
		}
		p.blocked[c] = struct{}{}
		p.codes = append(p.codes, c)
	}
	return p
}

// NoticePath retorna o caminho da página de aviso
func (p *Policy) NoticePath() string { return p.noticePath }

// BlockedCodes retorna uma cópia dos códigos, na ordem configurada
func (p *Policy) BlockedCodes() []string {
	return append([]string(nil), p.codes...)
}

// IsBlocked compara sem diferenciar maiúsculas; país ausente nunca é bloqueado
func (p *Policy) IsBlocked(country string) bool {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return false
	}
	_, ok := p.blocked[country]
	return ok
}

// Decision é o resultado da política para uma requisição
type Decision struct {
	Country  string // "" quando não há sinal de geolocalização
	Blocked  bool
	Redirect bool
}

// Decide aplica a política: bloqueado e fora da página de aviso → redirect.
// Sem país a requisição passa (fail-open).
func (p *Policy) Decide(country, path string) Decision {
	d := Decision{Country: strings.ToUpper(strings.TrimSpace(country))}
	d.Blocked = p.IsBlocked(d.Country)
	d.Redirect = d.Blocked && path != p.noticePath
	return d
}
