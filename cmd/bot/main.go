package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackjack/internal/advisor"
	"blackjack/internal/bot"
	"blackjack/internal/config"
	"blackjack/internal/database"
	"blackjack/internal/history"
	"blackjack/internal/logger"
	"blackjack/internal/player"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("database connected", zap.String("path", cfg.DatabasePath))

	playerRepo := player.NewRepository(db.DB)
	historyRepo := history.NewRepository(db.DB)

	var adv bot.Advisor
	if cfg.GeminiAPIKey != "" {
		adv = advisor.New(advisor.Config{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
			Timeout:  cfg.AdvisorTimeout,
		})
		logger.Info("advisor enabled", zap.String("model", cfg.GeminiModel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
	}

	b, err := bot.New(cfg, playerRepo, historyRepo, adv)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	if err := b.Run(ctx); err != nil {
		logger.Error("bot error", zap.Error(err))
	}
}
