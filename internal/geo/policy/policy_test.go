package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	p := New(DefaultNoticePath, DefaultBlocked...)

	tests := []struct {
		name     string
		country  string
		path     string
		blocked  bool
		redirect bool
	}{
		{"blocked country page", "US", "/markets", true, true},
		{"blocked on notice page", "US", "/geo", true, false},
		{"no signal", "", "/markets", false, false},
		{"lower case", "ru", "/", true, true},
		{"padded", " cn ", "/live", true, true},
		{"allowed country", "BR", "/markets", false, false},
		{"notice subpath still redirects", "TR", "/geo/extra", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Decide(tt.country, tt.path)
			assert.Equal(t, tt.blocked, d.Blocked)
			assert.Equal(t, tt.redirect, d.Redirect)
		})
	}
}

func TestNew_Normalizes(t *testing.T) {
	p := New("", "us", "US", " ", "tr")
	assert.Equal(t, []string{"US", "TR"}, p.BlockedCodes())
	assert.Equal(t, DefaultNoticePath, p.NoticePath())

	codes := p.BlockedCodes()
	codes[0] = "BR"
	assert.False(t, p.IsBlocked("BR"))
}
