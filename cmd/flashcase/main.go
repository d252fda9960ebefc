// Command flashcase runs the FlashCase HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/ai"
	"github.com/flashcase/flashcase/internal/auth"
	"github.com/flashcase/flashcase/internal/config"
	"github.com/flashcase/flashcase/internal/moderation"
	"github.com/flashcase/flashcase/internal/scheduler"
	"github.com/flashcase/flashcase/internal/server"
	"github.com/flashcase/flashcase/internal/service"
	"github.com/flashcase/flashcase/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "flashcase: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := service.New(store, scheduler.NewSM2(), moderation.NewFilter(), logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	aiClient := ai.NewClient(ai.Config{
		APIKey:                cfg.GrokAPIKey,
		BaseURL:               cfg.GrokBaseURL,
		Model:                 cfg.GrokModel,
		Temperature:           cfg.GrokTemperature,
		GenerateMaxTokens:     cfg.GrokMaxTokens,
		RewriteMaxTokens:      cfg.GrokRewriteMaxTokens,
		AutocompleteMaxTokens: cfg.GrokCompleteMaxTokens,
	}, logger)
	if !aiClient.Enabled() {
		logger.Info("ai features disabled: no API key configured")
	}

	srv := server.New(cfg, svc, aiClient, tokens, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting flashcase",
		zap.String("addr", cfg.ListenAddr),
		zap.String("db", cfg.DatabasePath))
	return srv.Run(ctx)
}
