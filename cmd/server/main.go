// Copyright 2026 The Platewise Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package main provides the entry point for the Platewise inference gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/platewise/platewise/internal/api"
	"github.com/platewise/platewise/internal/backend"
	"github.com/platewise/platewise/internal/buildinfo"
	"github.com/platewise/platewise/internal/catalog"
	"github.com/platewise/platewise/internal/config"
	"github.com/platewise/platewise/internal/inference"
	"github.com/platewise/platewise/internal/interactionlog"
	"github.com/platewise/platewise/internal/logging"
	"github.com/platewise/platewise/internal/metrics"
	"github.com/platewise/platewise/internal/steering"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// .env is optional; environment variables fill in backend credentials
	// that the config file leaves empty.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		if os.IsNotExist(errors.Unwrap(err)) {
			log.Warnf("no config file at %s, using defaults", *configPath)
			cfg = config.Default()
		} else {
			log.WithError(err).Fatal("failed to load configuration")
		}
	}
	applyEnvCredentials(cfg)
	if !validBackend(cfg.FallbackBackend) {
		log.Fatalf("unknown fallback-backend %q", cfg.FallbackBackend)
	}

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if err := logging.ConfigureLogOutput(cfg.LoggingToFile, cfg.LogDir); err != nil {
		log.WithError(err).Fatal("failed to configure logging")
	}
	log.Infof("platewise inference gateway %s (%s)", buildinfo.Version, buildinfo.Commit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog store")
	}
	defer closeStore()

	m := metrics.New()

	interactions, err := interactionlog.New(cfg.InteractionLogPath, m)
	if err != nil {
		log.WithError(err).Fatal("failed to open interaction log")
	}
	defer func() {
		if err := interactions.Close(); err != nil {
			log.WithError(err).Warn("interaction log close failed")
		}
	}()

	dispatcher := backend.NewDispatcher(
		[]backend.Adapter{
			backend.NewAnthropicAdapter(cfg.Claude),
			backend.NewOpenAIAdapter(cfg.OpenAI),
			backend.NewGeminiAdapter(backend.GeminiPro, cfg.Gemini),
			backend.NewGeminiAdapter(backend.GeminiFlash, cfg.Gemini),
			backend.NewOllamaAdapter(cfg.Ollama),
		},
		backend.ID(cfg.FallbackBackend),
		time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		backend.NewTokenEstimator(cfg.TokenEstimator),
		m,
	)

	steeringEngine := steering.NewEngine(cfg.Steering)
	aggregator := inference.NewAggregator(store, cfg.DefaultCuisine, m)
	pipeline := inference.NewPipeline(store, aggregator, dispatcher, steeringEngine, interactions, m, cfg.CatalogFetchLimit)

	// Steering rules follow the config file on disk.
	if watcher, err := config.NewWatcher(*configPath, func(fresh *config.Config) {
		steeringEngine.SetRules(fresh.Steering)
	}); err == nil {
		go func() {
			if err := watcher.Start(ctx); err != nil {
				log.WithError(err).Warn("config watcher stopped")
			}
		}()
	} else {
		log.WithError(err).Warn("config watcher unavailable")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           api.NewServer(cfg, pipeline, m).Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}

// openStore picks Postgres when a DSN is configured, otherwise the built-in
// in-memory store so the gateway runs standalone.
func openStore(ctx context.Context, cfg *config.Config) (catalog.Store, func(), error) {
	if cfg.DatabaseDSN == "" {
		log.Warn("no database-dsn configured, using the in-memory catalog")
		return catalog.NewMemoryStore(nil), func() {}, nil
	}
	pg, err := catalog.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return pg, func() {
		if err := pg.Close(); err != nil {
			log.WithError(err).Warn("catalog store close failed")
		}
	}, nil
}

func validBackend(name string) bool {
	for _, id := range backend.All() {
		if id == backend.ID(name) {
			return true
		}
	}
	return false
}

// applyEnvCredentials fills backend credentials from the environment when
// the config file leaves them empty.
func applyEnvCredentials(cfg *config.Config) {
	if cfg.Claude.APIKey == "" {
		cfg.Claude.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}
