package normalize

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseOdds(t *testing.T) {
	tests := []struct {
		name string
		raw  RawOdds
		want float64
	}{
		{"null", NullOdds, 0},
		{"decimal number", OddsNumber(1.85), 1.85},
		{"decimal string", OddsString("2.5"), 2.5},
		{"fixed point string", OddsString("1850000000000"), 1.85},
		{"fixed point number", OddsNumber(1850000000000), 1.85},
		{"threshold is fixed point", OddsNumber(1000), 1000 / 1e12},
		{"just below threshold", OddsNumber(999.99), 999.99},
		{"padded string", OddsString("  3.1 "), 3.1},
		{"not a number", OddsString("not a number"), 0},
		{"empty string", OddsString(""), 0},
		{"NaN", OddsNumber(math.NaN()), 0},
		{"infinity string", OddsString("Infinity"), 0},
		{"negative", OddsNumber(-2), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseOdds(tt.raw), 1e-12)
		})
	}
}

func TestParseOdds_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.Float64Range(-1e6, 999.999).Draw(t, "decimal")
		if got := ParseOdds(OddsNumber(r)); got != r {
			t.Fatalf("ParseOdds(%v) = %v, want unchanged", r, got)
		}
	})
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.Float64Range(1000, 1e16).Draw(t, "fixed")
		if got := ParseOdds(OddsNumber(r)); got != r/1e12 {
			t.Fatalf("ParseOdds(%v) = %v, want %v", r, got, r/1e12)
		}
	})
}

func TestRawOdds_JSON(t *testing.T) {
	var payload struct {
		A RawOdds `json:"a"`
		B RawOdds `json:"b"`
		C RawOdds `json:"c"`
		D RawOdds `json:"d"`
		E RawOdds `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a":"1850000000000","b":2.1,"c":null,"d":{"x":1},"e":true}`), &payload)
	require.NoError(t, err)

	assert.InDelta(t, 1.85, ParseOdds(payload.A), 1e-12)
	assert.Equal(t, 2.1, ParseOdds(payload.B))
	assert.True(t, payload.C.IsNull())
	assert.True(t, payload.D.IsNull())
	assert.True(t, payload.E.IsNull())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"1850000000000","b":2.1,"c":null,"d":null,"e":null}`, string(out))
}

func TestFormatOdds(t *testing.T) {
	assert.Equal(t, "1.86", FormatOdds(1.855))
	assert.Equal(t, "1.85", FormatOdds(1.85))
	assert.Equal(t, "2.00", FormatOdds(2))
	assert.Equal(t, "0.01", FormatOdds(0.005))
	assert.Equal(t, Dash, FormatOdds(0))
	assert.Equal(t, Dash, FormatOdds(-1.5))
	assert.Equal(t, Dash, FormatOdds(math.NaN()))
	assert.Equal(t, Dash, FormatOdds(math.Inf(1)))
}

func TestFormatOdds_ParsedFixedPoint(t *testing.T) {
	assert.Equal(t, "1.85", FormatOdds(ParseOdds(OddsString("1850000000000"))))
	assert.Equal(t, Dash, FormatOdds(ParseOdds(NullOdds)))
}
