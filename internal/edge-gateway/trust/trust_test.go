package trust

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse([]string{" 10.0.0.0/8 ", "", "2001:db8::/32"})
	require.NoError(t, err)

	assert.True(t, p.Contains("10.1.2.3:443"))
	assert.True(t, p.Contains("[2001:db8::1]:80"))
	assert.True(t, p.Contains("::ffff:10.0.0.1"))
	assert.False(t, p.Contains("203.0.113.7:443"))
	assert.False(t, p.Contains("garbage"))

	_, err = Parse([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	none, err := Parse(nil)
	require.NoError(t, err)
	assert.False(t, none.Contains("127.0.0.1:1"))

	var nilProxies *Proxies
	assert.False(t, nilProxies.Contains("127.0.0.1:1"))
}

func TestMiddleware(t *testing.T) {
	p, err := Parse([]string{"127.0.0.0/8", "10.0.0.0/8"})
	require.NoError(t, err)

	type seen struct {
		remote    string
		forwarded bool
	}
	var got seen
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = seen{r.RemoteAddr, Forwarded(r)}
	}))

	// peer público: X-Forwarded-For ignorado
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:5555"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, seen{"203.0.113.7:5555", false}, got)

	// load balancer interno: vale o cliente informado
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:5555"
	r.Header.Set("X-Forwarded-For", "198.51.100.1")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, seen{"198.51.100.1", true}, got)
}
