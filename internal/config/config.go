package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken      string
	DatabasePath  string
	StartBalance  int
	DefaultBet    int
	MinBet        int
	MaxBet        int
	BlackjackPays float64
	BuyAmounts    []int
	HistoryLimit  int

	GeminiAPIKey   string
	GeminiModel    string
	GeminiEndpoint string
	AdvisorTimeout time.Duration

	MetricsAddr string
}

func Load() (*Config, error) {
	godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	cfg := &Config{
		BotToken:       token,
		DatabasePath:   getString("DATABASE_PATH", "./blackjack.db"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getString("GEMINI_MODEL", "gemini-flash-latest"),
		GeminiEndpoint: getString("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
	}

	var err error
	if cfg.StartBalance, err = getInt("START_BALANCE", 1000); err != nil {
		return nil, err
	}
	if cfg.DefaultBet, err = getInt("DEFAULT_BET", 100); err != nil {
		return nil, err
	}
	if cfg.MinBet, err = getInt("MIN_BET", 10); err != nil {
		return nil, err
	}
	if cfg.MaxBet, err = getInt("MAX_BET", 10000); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit, err = getInt("HISTORY_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.BlackjackPays, err = getFloat("BLACKJACK_PAYS", 1.5); err != nil {
		return nil, err
	}
	if cfg.BuyAmounts, err = getIntList("BUY_AMOUNTS", []int{100, 500, 1000, 5000}); err != nil {
		return nil, err
	}
	if cfg.AdvisorTimeout, err = getDuration("ADVISOR_TIMEOUT", 8*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinBet <= 0 || c.MinBet > c.MaxBet {
		return fmt.Errorf("invalid bet range %d..%d", c.MinBet, c.MaxBet)
	}
	if c.DefaultBet < c.MinBet || c.DefaultBet > c.MaxBet {
		return fmt.Errorf("DEFAULT_BET %d is outside %d..%d", c.DefaultBet, c.MinBet, c.MaxBet)
	}
	if c.BlackjackPays <= 0 {
		return fmt.Errorf("BLACKJACK_PAYS must be positive")
	}
	return nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getIntList(key string, def []int) ([]int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}

	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s entry %q", key, part)
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}
