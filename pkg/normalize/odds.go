// Package normalize converte os encodings de ponto fixo usados on-chain
// (odds ×10^12, valores de token em unidades atômicas) em strings de exibição.
// Entradas malformadas degradam para um default seguro (0, "—" ou "") e nunca
// retornam erro.
package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OddsDecimals é a escala das odds no subgraph: raw / 10^12 = odd decimal (ex: 1.85)
const OddsDecimals = 12

// fixedPointThreshold separa odds decimais de odds em ponto fixo.
// Heurística inferida dos dados observados, não é garantia do protocolo.
const fixedPointThreshold = 1000

// Dash é o placeholder exibido quando não há odd válida
const Dash = "—"

var oddsScale = math.Pow10(OddsDecimals)

type oddsKind uint8

const (
	oddsNull oddsKind = iota
	oddsString
	oddsNumber
)

// RawOdds é o valor bruto de uma odd como chega do subgraph/SDK:
// string, número ou ausente (null). O zero value é null.
type RawOdds struct {
	kind oddsKind
	str  string
	num  float64
}

// NullOdds representa a ausência de odd
var NullOdds = RawOdds{}

// OddsString cria uma odd bruta a partir de texto (ex: "1850000000000")
func OddsString(s string) RawOdds { return RawOdds{kind: oddsString, str: s} }

// OddsNumber cria uma odd bruta numérica (ex: 1.85)
func OddsNumber(f float64) RawOdds { return RawOdds{kind: oddsNumber, num: f} }

// IsNull informa se a odd está ausente
func (r RawOdds) IsNull() bool { return r.kind == oddsNull }

// UnmarshalJSON aceita string, número ou null.
// Qualquer outro tipo JSON vira null em vez de erro.
func (r *RawOdds) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		*r = NullOdds
		return nil
	}
	switch t := v.(type) {
	case string:
		*r = OddsString(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			*r = OddsString(t.String())
			return nil
		}
		*r = OddsNumber(f)
	default:
		*r = NullOdds
	}
	return nil
}

// MarshalJSON devolve a forma original (string, número ou null)
func (r RawOdds) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case oddsString:
		return json.Marshal(r.str)
	case oddsNumber:
		if math.IsNaN(r.num) || math.IsInf(r.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(r.num)
	default:
		return []byte("null"), nil
	}
}

// ParseOdds converte a odd bruta em decimal.
// null/não numérico → 0; valor ≥ 1000 → ponto fixo, dividido por 10^12;
// abaixo disso já é decimal e volta inalterado.
func ParseOdds(raw RawOdds) float64 {
	var n float64
	switch raw.kind {
	case oddsString:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw.str), 64)
		if err != nil {
			return 0
		}
		n = f
	case oddsNumber:
		n = raw.num
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	if n >= fixedPointThreshold {
		return n / oddsScale
	}
	return n
}

// FormatOdds formata com exatamente 2 casas; valores ≤ 0 viram Dash.
// O arredondamento parte da menor representação decimal do float
// (1.855 → "1.86"), metade para longe do zero.
func FormatOdds(v float64) string {
	if !(v > 0) || math.IsInf(v, 1) {
		return Dash
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
