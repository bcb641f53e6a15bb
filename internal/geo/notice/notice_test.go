package notice

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-edge/internal/geo/policy"
)

func TestCountryName(t *testing.T) {
	assert.Equal(t, "USA", CountryName("us"))
	assert.Equal(t, "Russian Federation", CountryName("RU"))
	assert.Equal(t, "Germany", CountryName("DE"))
	assert.Equal(t, "!!", CountryName("!!"))
}

func TestBlockedList(t *testing.T) {
	p := policy.New("/geo", policy.DefaultBlocked...)
	assert.Equal(t, "USA, Russian Federation, China, Turkey", BlockedList(p))
}

func TestHandler(t *testing.T) {
	p := policy.New("/geo", policy.DefaultBlocked...)
	h := Handler(zap.NewNop(), p, Support{TelegramURL: "https://t.me/support", Email: "help@example.com"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geo", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Access restricted")
	assert.Contains(t, body, "USA, Russian Federation, China, Turkey")
	assert.Contains(t, body, `href="https://t.me/support"`)
	assert.Contains(t, body, "mailto:help@example.com")
}

func TestHandler_NoSupportLinks(t *testing.T) {
	h := Handler(zap.NewNop(), policy.New("/geo", "US"), Support{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geo", nil))
	assert.NotContains(t, rec.Body.String(), "Telegram")
}
