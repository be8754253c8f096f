package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

// WriteError writes a JSON error body with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(schema.ErrorResponse{Detail: message})
}

// WriteJSON writes the data structure as JSON.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteAudio writes binary audio data with the appropriate content type.
func WriteAudio(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", AudioContentType(format))
	w.Header().Set("Content-Disposition", "attachment; filename=audio."+strings.ToLower(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// AudioContentType returns the MIME type for a given audio format.
func AudioContentType(format string) string {
	switch strings.ToLower(format) {
	case "wav":
		return "audio/wav"
	case "mp3":
		return "audio/mpeg"
	case "ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
