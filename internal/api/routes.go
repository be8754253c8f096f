// Package api exposes the synthesis operations over HTTP for serve mode.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/voice-agent-go/voice-agent-go/internal/config"
)

// NewRouter constructs the HTTP router with middleware and routes.
func NewRouter(cfg *config.Config, svc Service, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(CORSMiddleware)
	if cfg.Server.APIKey != "" {
		r.Use(AuthMiddleware(cfg.Server.APIKey))
	}

	h := NewHandler(svc, cfg, logger)

	r.Get("/v1/health", h.HandleHealth)
	r.Post("/v1/synthesize", h.HandleSynthesize)
	r.Post("/v1/dialogue", h.HandleDialogue)
	r.Get("/v1/voices", h.HandleVoices)

	return r
}
