package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type dict map[int64]string

func (d dict) SelectionName(id int64) (string, bool) {
	n, ok := d[id]
	return n, ok
}

func TestOutcomeLabel(t *testing.T) {
	names := dict{29: "Over 2.5", 30: "Under 2.5"}

	tests := []struct {
		name string
		o    Outcome
		want string
	}{
		{"full time result home", Outcome{OutcomeID: "1", Title: "Team A", Index: 0, Total: 3, MarketName: "Full Time Result"}, "1"},
		{"full time result draw", Outcome{OutcomeID: "2", Index: 1, Total: 3}, "X"},
		{"match winner away", Outcome{OutcomeID: "3", Index: 2, Total: 3, MarketName: "Match Winner"}, "2"},
		{"dictionary wins over title", Outcome{OutcomeID: "29", Title: "raw", Index: 0, Total: 2, MarketName: "Total Goals"}, "Over 2.5"},
		{"title when not in dictionary", Outcome{OutcomeID: "999", Title: "Yes", Index: 0, Total: 2}, "Yes"},
		{"outcome id fallback", Outcome{OutcomeID: "777", Index: 0, Total: 2}, "777"},
		{"three outcomes other market", Outcome{OutcomeID: "29", Index: 0, Total: 3, MarketName: "Total Goals"}, "Over 2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutcomeLabel(tt.o, names))
		})
	}
}

func TestOutcomeLabel_NilDictionary(t *testing.T) {
	assert.Equal(t, "Draw", OutcomeLabel(Outcome{OutcomeID: "2", Title: " Draw ", Index: 1, Total: 2}, nil))
}

func TestIsFullTimeResultStyle(t *testing.T) {
	assert.True(t, IsFullTimeResultStyle(3, ""))
	assert.True(t, IsFullTimeResultStyle(3, "1X2"))
	assert.False(t, IsFullTimeResultStyle(2, "Match Winner"))
	assert.False(t, IsFullTimeResultStyle(3, "Handicap"))
}

func TestSportIcon(t *testing.T) {
	tests := map[string]string{
		"Football":          "/icons/sports/football.svg",
		"Soccer":            "/icons/sports/football.svg",
		"Hóckey":            "/icons/sports/hockey.svg",
		"American Football": "/icons/sports/american-football.svg",
		"Basketball":        "/icons/sports/basketball.svg",
		"Tennis":            "/icons/sports/tennis.svg",
		"Table Tennis":      "/icons/sports/table-tennis.svg",
		"Ice Hockey":        "/icons/sports/hockey.svg",
		"eSports":           "/icons/sports/esports.svg",
		"MMA":               "/icons/sports/boxing.svg",
		"Formula 1":         "/icons/sports/motorsport.svg",
		"Snooker":           "/icons/sports/snooker.svg",
		"":                  "/icons/sports/sport.svg",
		"Curling":           "/icons/sports/sport.svg",
	}
	for in, want := range tests {
		assert.Equal(t, want, SportIcon(in), in)
	}
}
