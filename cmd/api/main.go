package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/geniechat/internal/api"
	"github.com/nikhilbhutani/geniechat/internal/config"
	"github.com/nikhilbhutani/geniechat/internal/llm"
	"github.com/nikhilbhutani/geniechat/internal/multimodal/stt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	for _, w := range cfg.Warnings() {
		slog.Warn(w)
	}
	if cfg.Chat.Mock {
		slog.Warn("chat mock mode enabled: replies are canned, no provider is called")
	}

	// Provider clients are built once here and passed down explicitly.
	gw := llm.NewGateway(cfg.LLM)
	sttProvider := stt.NewFromConfig(cfg.STT)

	router := api.NewRouter(cfg, gw, sttProvider)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server",
			"addr", cfg.Addr(),
			"chat_providers", gw.Providers(),
			"transcription", sttProvider.Name(),
		)
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
