package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.BotToken)
	assert.Equal(t, "./blackjack.db", cfg.DatabasePath)
	assert.Equal(t, 1000, cfg.StartBalance)
	assert.Equal(t, 100, cfg.DefaultBet)
	assert.Equal(t, 10, cfg.MinBet)
	assert.Equal(t, 10000, cfg.MaxBet)
	assert.Equal(t, 1.5, cfg.BlackjackPays)
	assert.Equal(t, []int{100, 500, 1000, 5000}, cfg.BuyAmounts)
	assert.Equal(t, "gemini-flash-latest", cfg.GeminiModel)
	assert.Equal(t, 8*time.Second, cfg.AdvisorTimeout)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("DATABASE_PATH", "/tmp/bj.db")
	t.Setenv("MIN_BET", "5")
	t.Setenv("DEFAULT_BET", "25")
	t.Setenv("BLACKJACK_PAYS", "1.2")
	t.Setenv("BUY_AMOUNTS", "250, 50")
	t.Setenv("ADVISOR_TIMEOUT", "2s")
	t.Setenv("METRICS_ADDR", ":9100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bj.db", cfg.DatabasePath)
	assert.Equal(t, 5, cfg.MinBet)
	assert.Equal(t, 25, cfg.DefaultBet)
	assert.Equal(t, 1.2, cfg.BlackjackPays)
	assert.Equal(t, []int{50, 250}, cfg.BuyAmounts)
	assert.Equal(t, 2*time.Second, cfg.AdvisorTimeout)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"BOT_TOKEN": ""}},
		{"bad int", map[string]string{"BOT_TOKEN": "t", "MAX_BET": "lots"}},
		{"bad buy amount", map[string]string{"BOT_TOKEN": "t", "BUY_AMOUNTS": "100,-1"}},
		{"bad duration", map[string]string{"BOT_TOKEN": "t", "ADVISOR_TIMEOUT": "soon"}},
		{"inverted range", map[string]string{"BOT_TOKEN": "t", "MIN_BET": "500", "MAX_BET": "100"}},
		{"default bet outside range", map[string]string{"BOT_TOKEN": "t", "DEFAULT_BET": "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
