package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/voice-agent-go/voice-agent-go/internal/config"
	"github.com/voice-agent-go/voice-agent-go/internal/schema"
	"github.com/voice-agent-go/voice-agent-go/internal/tts"
)

// Service is the subset of agent operations the HTTP layer needs.
type Service interface {
	Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*tts.Result, error)
	GenerateDialogueAudio(ctx context.Context, content string, gap time.Duration) ([]byte, error)
	ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error)
}

// Handler serves the synthesis endpoints.
type Handler struct {
	svc    Service
	cfg    *config.Config
	logger zerolog.Logger
}

// NewHandler creates a handler backed by the given service.
func NewHandler(svc Service, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, logger: logger}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "engine": h.cfg.TTS.Engine})
}

// HandleSynthesize runs a single synthesis request and streams back the audio.
func (h *Handler) HandleSynthesize(w http.ResponseWriter, r *http.Request) {
	var spec schema.SynthesisSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := spec.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Synthesize(r.Context(), &spec)
	if err != nil {
		h.writeSynthesisError(w, err)
		return
	}
	WriteAudio(w, res.Format, res.Audio)
}

// DialogueRequest is the body of POST /v1/dialogue.
type DialogueRequest struct {
	Script string `json:"script"`
	GapMS  int    `json:"gap_ms,omitempty"`
}

// HandleDialogue synthesizes a multi-speaker script and returns the joined
// WAV audio.
func (h *Handler) HandleDialogue(w http.ResponseWriter, r *http.Request) {
	var req DialogueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Script) == "" {
		WriteError(w, http.StatusBadRequest, "script is required")
		return
	}
	gap := 500 * time.Millisecond
	if req.GapMS > 0 {
		gap = time.Duration(req.GapMS) * time.Millisecond
	}

	data, err := h.svc.GenerateDialogueAudio(r.Context(), req.Script, gap)
	if err != nil {
		if strings.Contains(err.Error(), "no dialogue lines") {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeSynthesisError(w, err)
		return
	}
	WriteAudio(w, "wav", data)
}

// HandleVoices lists the voices the configured engine offers.
func (h *Handler) HandleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.svc.ListVoices(r.Context(), r.URL.Query().Get("language"))
	if err != nil {
		h.writeSynthesisError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, schema.ListVoicesResponse{Voices: voices})
}

func (h *Handler) writeSynthesisError(w http.ResponseWriter, err error) {
	var apiErr *tts.APIError
	switch {
	case errors.Is(err, tts.ErrMissingCredentials):
		WriteError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, tts.ErrTimeout):
		WriteError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, tts.ErrUnavailable):
		WriteError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode == http.StatusBadRequest || apiErr.StatusCode == http.StatusUnauthorized {
			status = apiErr.StatusCode
		}
		WriteError(w, status, apiErr.Message)
	default:
		h.logger.Error().Err(err).Msg("synthesis failed")
		WriteError(w, http.StatusInternalServerError, "Synthesis failed")
	}
}
