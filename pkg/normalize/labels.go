package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var oneXTwo = [3]string{"1", "X", "2"}

// mercados de 3 resultados cujo nome indica resultado final
var fullTimeResultHints = []string{"full time result", "match winner", "1x2", "result", "winner"}

// SelectionNames resolve o nome de uma seleção a partir do outcome id
// (dicionário externo de mercados)
type SelectionNames interface {
	SelectionName(outcomeID int64) (string, bool)
}

// Outcome descreve um resultado dentro de uma condição de mercado
type Outcome struct {
	OutcomeID  string
	Title      string
	Index      int
	Total      int
	MarketName string
}

// IsFullTimeResultStyle informa se o mercado deve ser exibido como 1/X/2
func IsFullTimeResultStyle(totalOutcomes int, marketName string) bool {
	if totalOutcomes != 3 {
		return false
	}
	if strings.TrimSpace(marketName) == "" {
		return true
	}
	name := strings.ToLower(marketName)
	for _, h := range fullTimeResultHints {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}

// OutcomeLabel devolve o rótulo de exibição de um resultado.
// Prioridade: dicionário, título, outcome id. Em mercados de resultado
// final com 3 resultados o rótulo vira 1, X ou 2 pelo índice.
func OutcomeLabel(o Outcome, names SelectionNames) string {
	label := strings.TrimSpace(o.Title)
	if label == "" {
		label = strings.TrimSpace(o.OutcomeID)
	}
	if names != nil {
		if id, err := strconv.ParseInt(strings.TrimSpace(o.OutcomeID), 10, 64); err == nil {
			if n, ok := names.SelectionName(id); ok && n != "" {
				label = n
			}
		}
	}
	if IsFullTimeResultStyle(o.Total, o.MarketName) && o.Index >= 0 && o.Index < len(oneXTwo) {
		return oneXTwo[o.Index]
	}
	return label
}

const sportsIconsBase = "/icons/sports"

type iconRule struct {
	match func(string) bool
	icon  string
}

func has(subs ...string) func(string) bool {
	return func(v string) bool {
		for _, s := range subs {
			if strings.Contains(v, s) {
				return true
			}
		}
		return false
	}
}

// ordem importa: "american football" e "table tennis" caem em regras posteriores
var iconRules = []iconRule{
	{func(v string) bool {
		return strings.Contains(v, "soccer") || (strings.Contains(v, "football") && !strings.Contains(v, "american"))
	}, "football.svg"},
	{has("basket"), "basketball.svg"},
	{func(v string) bool { return strings.Contains(v, "tennis") && !strings.Contains(v, "table") }, "tennis.svg"},
	{has("hockey"), "hockey.svg"},
	{has("esport", "e-sport", "e sport"), "esports.svg"},
	{has("volleyball"), "volleyball.svg"},
	{has("cricket"), "cricket.svg"},
	{has("baseball"), "baseball.svg"},
	{has("boxing", "mma", "ufc"), "boxing.svg"},
	{has("rugby"), "rugby.svg"},
	{has("table tennis", "ping pong", "ping-pong"), "table-tennis.svg"},
	{has("darts"), "darts.svg"},
	{has("cycl"), "cycling.svg"},
	{has("motor", "formula", "f1", "racing"), "motorsport.svg"},
	{has("american football"), "american-football.svg"},
	{has("snooker", "billiard", "pool"), "snooker.svg"},
	{has("handball"), "handball.svg"},
}

// SportIcon devolve o caminho do ícone para o nome do esporte
func SportIcon(name string) string {
	v := foldName(name)
	for _, r := range iconRules {
		if r.match(v) {
			return sportsIconsBase + "/" + r.icon
		}
	}
	return sportsIconsBase + "/sport.svg"
}

// foldName deixa minúsculo e remove acentos ("Fútbol" → "futbol")
func foldName(name string) string {
	name = strings.ToLower(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, name); err == nil {
		name = out
	}
	return strings.Join(strings.Fields(name), " ")
}
