package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/voicetranslate/internal/api"
	"github.com/nikhilbhutani/voicetranslate/internal/config"
	"github.com/nikhilbhutani/voicetranslate/internal/fetch"
	"github.com/nikhilbhutani/voicetranslate/internal/multimodal/stt"
	"github.com/nikhilbhutani/voicetranslate/internal/multimodal/tts"
	"github.com/nikhilbhutani/voicetranslate/internal/pipeline"
	"github.com/nikhilbhutani/voicetranslate/internal/translation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("refusing to start", "error", err)
		os.Exit(1)
	}

	sttProvider, err := stt.New(cfg.STT)
	if err != nil {
		slog.Error("failed to create stt provider", "error", err)
		os.Exit(1)
	}
	translator, err := translation.New(cfg.Translation)
	if err != nil {
		slog.Error("failed to create translator", "error", err)
		os.Exit(1)
	}
	ttsProvider, err := tts.New(cfg.TTS)
	if err != nil {
		slog.Error("failed to create tts provider", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(
		fetch.New(fetch.Config{Timeout: cfg.Fetch.Timeout, MaxBytes: cfg.Fetch.MaxBytes}),
		sttProvider,
		translator,
		ttsProvider,
		pipeline.Options{
			TempDir: cfg.Pipeline.TempDir,
			Timeout: cfg.Pipeline.Timeout,
			Logger:  logger,
		},
	)
	slog.Info("pipeline ready", "backends", p.Backends(), "temp_dir", cfg.Pipeline.TempDir, "timeout", cfg.Pipeline.Timeout)

	// Setup router
	router := api.NewRouter(p)
	handler := router.Setup()

	// The response is written after the whole pipeline has run.
	var writeTimeout time.Duration
	if cfg.Pipeline.Timeout > 0 {
		writeTimeout = cfg.Pipeline.Timeout + time.Minute
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
