package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wibisono/ais-console/internal/config"
	"github.com/wibisono/ais-console/internal/conversation"
	"github.com/wibisono/ais-console/internal/hospital"
	"github.com/wibisono/ais-console/internal/httpapi"
	"github.com/wibisono/ais-console/internal/observability/metrics"
	"github.com/wibisono/ais-console/internal/routing"
	"github.com/wibisono/ais-console/pkg/logging"
)

func main() {
	// Load .env file if present (development convenience)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	logger.Info("starting AIS console API",
		"env", cfg.Env,
		"port", cfg.Port,
		"model", cfg.GeminiModelID,
	)

	ctx := context.Background()

	// The fixture store stands in for the hospital information system.
	repo := hospital.Seed()

	client := newRoutingClient(ctx, cfg, logger)
	defer client.Close()

	routingMetrics := metrics.NewRoutingMetrics(nil)
	router := routing.NewRouter(client, logger, routingMetrics, routing.Options{
		Timeout:     cfg.RoutingTimeout,
		Temperature: float32(cfg.RoutingTemperature),
		MaxTokens:   int32(cfg.RoutingMaxTokens),
	})

	sessions := conversation.NewManager(router, repo, cfg.GreetingText, logger)
	handler := httpapi.NewHandler(sessions, repo, cfg.SessionHistoryLimit, logger)

	mux := httpapi.NewRouter(&httpapi.RouterConfig{
		Logger:             logger,
		Handler:            handler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// routingClient is the subset of the Gemini client the process manages.
type routingClient interface {
	routing.LLMClient
	Close() error
}

// newRoutingClient builds the Gemini-backed routing client. When no API key
// is configured, or the client cannot be constructed, the server still comes
// up: every routing call fails and the conversation layer answers with its
// fallback reply.
func newRoutingClient(ctx context.Context, cfg *config.Config, logger *logging.Logger) routingClient {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; routing runs in fallback-only mode")
		return &unavailable{routing.UnavailableClient{Err: errors.New("no gemini credential configured")}}
	}
	client, err := routing.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create Gemini client; routing runs in fallback-only mode", "error", err)
		return &unavailable{routing.UnavailableClient{Err: err}}
	}
	return client
}

// unavailable adapts routing.UnavailableClient to the closable interface.
type unavailable struct {
	routing.UnavailableClient
}

func (*unavailable) Close() error { return nil }
