package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/textpub/internal/api"
	"github.com/dgallion1/textpub/internal/config"
	"github.com/dgallion1/textpub/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the LLM cleaner when a key is configured.
	ai, client, err := pipeline.NewAICleaner(cfg, log)
	if err != nil {
		log.Error("llm setup failed", "error", err)
		os.Exit(1)
	}
	if client == nil {
		log.Warn("no llm api key configured, ai cleaner disabled", "provider", cfg.LLMProvider)
	} else {
		log.Info("ai cleaner enabled", "provider", cfg.LLMProvider, "model", client.Model())
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, ai, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if client != nil {
			client.Close()
		}
	}()

	log.Info("starting textpub", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
