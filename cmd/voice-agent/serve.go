package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
	"github.com/voice-agent-go/voice-agent-go/internal/api"
)

var (
	serveListen       string
	serveAPIKey       string
	serveReadTimeout  time.Duration
	serveWriteTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the synthesis HTTP API",
	Long: `Serve exposes synthesis over HTTP:

  GET  /v1/health
  POST /v1/synthesize
  POST /v1/dialogue
  GET  /v1/voices

Examples:
  voice-agent serve
  voice-agent serve --listen 127.0.0.1:9000 --api-key secret`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default: VOICE_LISTEN or 0.0.0.0:8080)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Require this bearer token (empty = no auth)")
	serveCmd.Flags().DurationVar(&serveReadTimeout, "read-timeout", 0, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&serveWriteTimeout, "write-timeout", 0, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}
	if serveAPIKey != "" {
		cfg.Server.APIKey = serveAPIKey
	}
	if serveReadTimeout != 0 {
		cfg.Server.ReadTimeout = serveReadTimeout
	}
	if serveWriteTimeout != 0 {
		cfg.Server.WriteTimeout = serveWriteTimeout
	}

	logger := setupLogger(cfg.Logging)

	if !cfg.HasTTSCredentials() {
		logger.Warn().Str("engine", cfg.TTS.Engine).Msg("No synthesis credentials configured - requests will fail")
	}

	a := agent.New(cfg, logger)
	router := api.NewRouter(cfg, a, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Listen).Str("engine", cfg.TTS.Engine).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info().Msg("Server stopped")
	return nil
}
