package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expensecoach/internal/advisor"
	"expensecoach/internal/api"
	"expensecoach/internal/api/handlers"
	"expensecoach/internal/config"
	"expensecoach/internal/export"
	"expensecoach/internal/insight"
	"expensecoach/internal/logger"
	"expensecoach/internal/normalize"
	"expensecoach/internal/pipeline"
	"expensecoach/internal/session"
	"expensecoach/internal/store"
	"expensecoach/internal/store/memory"
	"expensecoach/internal/store/sqlite"
)

func main() {
	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize storage
	var (
		recordStore store.Store
		err         error
	)
	switch cfg.DataBackend {
	case "sqlite":
		recordStore, err = sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open sqlite store")
		}
		log.Info().Str("path", cfg.SQLiteDBPath).Msg("Using sqlite store")
	default:
		recordStore = memory.New()
		log.Info().Msg("Using in-memory store")
	}
	defer recordStore.Close()

	// Build the insight generator chain
	generators := make([]insight.Generator, 0, 2)
	for _, provider := range cfg.Providers() {
		switch provider {
		case "gemini":
			generators = append(generators, insight.NewGemini(cfg.GeminiModel))
		case "openrouter":
			generators = append(generators, insight.NewOpenRouter(cfg.OpenRouterAPIKey, cfg.OpenRouterReferer))
		}
	}
	var chain insight.Generator
	if len(generators) > 0 {
		chain = insight.NewChain(log, generators...)
	} else {
		log.Warn().Msg("No insight providers configured - analysis will use the deterministic fallback")
	}

	// Date handling for ambiguous numeric dates
	order := normalize.OrderDayFirst
	if cfg.DateOrder == "monthfirst" {
		order = normalize.OrderMonthFirst
	}
	dates := normalize.DateNormalizer{Order: order}

	// Merchant categorization, with the chain doubling as zero-shot classifier
	var classifier normalize.Classifier
	if chain != nil {
		classifier = insight.NewZeroShot(chain)
	}
	categorizer := normalize.NewCategorizer(classifier)

	sessions := session.NewMemoryStore(cfg.SessionTTL)
	ingestor := pipeline.NewIngestor(recordStore, dates, categorizer, log)
	adv := advisor.New(chain, log)

	var archiver *export.Archiver
	if cfg.ExportBucket != "" {
		archiver = export.NewArchiver(cfg.ExportBucket)
		log.Info().Str("bucket", cfg.ExportBucket).Msg("Export archival enabled")
	}

	router := api.NewRouter(api.Handlers{
		Auth:     handlers.NewAuthHandler(recordStore, sessions, log),
		Expenses: handlers.NewExpensesHandler(recordStore, ingestor, log),
		Budget:   handlers.NewBudgetHandler(recordStore, log),
		Analyze:  handlers.NewAnalyzeHandler(recordStore, adv, log),
		Export:   handlers.NewExportHandler(recordStore, archiver, log),
	}, sessions, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
