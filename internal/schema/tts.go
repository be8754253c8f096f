package schema

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	defaultFormat       = "mp3"
	defaultSpeakingRate = 1.0

	minSpeakingRate = 0.25
	maxSpeakingRate = 4.0
	minPitch        = -20.0
	maxPitch        = 20.0
)

// SynthesisSpec describes one synthesis call: a single segment of text and
// the voice parameters to render it with.
type SynthesisSpec struct {
	Text         string  `json:"text" msgpack:"text"`
	Voice        string  `json:"voice,omitempty" msgpack:"voice,omitempty"`
	LanguageCode string  `json:"language_code,omitempty" msgpack:"language_code,omitempty"`
	SpeakingRate float64 `json:"speaking_rate,omitempty" msgpack:"speaking_rate,omitempty"`
	Pitch        float64 `json:"pitch,omitempty" msgpack:"pitch,omitempty"`
	Format       string  `json:"format,omitempty" msgpack:"format,omitempty"`

	// StylePrompt is a delivery instruction ("cheerfully", "in a calm
	// documentary tone"). Only the Gemini engine uses it.
	StylePrompt string `json:"style_prompt,omitempty" msgpack:"style_prompt,omitempty"`
}

// Validate applies default values and range-checks the spec.
func (s *SynthesisSpec) Validate() error {
	s.applyDefaults()

	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("text is required")
	}

	if s.SpeakingRate < minSpeakingRate || s.SpeakingRate > maxSpeakingRate {
		return fmt.Errorf("speaking_rate must be between %g and %g", minSpeakingRate, maxSpeakingRate)
	}

	if s.Pitch < minPitch || s.Pitch > maxPitch {
		return fmt.Errorf("pitch must be between %g and %g", minPitch, maxPitch)
	}

	switch s.Format {
	case "mp3", "wav", "ogg":
	default:
		return fmt.Errorf("unsupported audio format %q", s.Format)
	}

	return nil
}

func (s *SynthesisSpec) applyDefaults() {
	if s.Format == "" {
		s.Format = defaultFormat
	}
	if s.SpeakingRate == 0 {
		s.SpeakingRate = defaultSpeakingRate
	}
}

// FormatForPath maps an output file extension to a synthesis format.
// Unknown extensions fall back to mp3, matching the default encoding.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "wav"
	case ".ogg":
		return "ogg"
	default:
		return "mp3"
	}
}

// EncodingForFormat maps a synthesis format to the cloud API encoding name.
func EncodingForFormat(format string) string {
	switch strings.ToLower(format) {
	case "wav":
		return "LINEAR16"
	case "ogg":
		return "OGG_OPUS"
	default:
		return "MP3"
	}
}

// SynthesisInput is the text (or SSML) payload of a synthesize call.
type SynthesisInput struct {
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

// VoiceSelectionParams selects the voice for a synthesize call.
type VoiceSelectionParams struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
	SSMLGender   string `json:"ssmlGender,omitempty"`
}

// AudioConfig holds output encoding parameters for a synthesize call.
type AudioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
	Pitch         float64 `json:"pitch,omitempty"`
}

// SynthesizeRequest is the cloud TTS text:synthesize request body.
type SynthesizeRequest struct {
	Input       SynthesisInput       `json:"input"`
	Voice       VoiceSelectionParams `json:"voice"`
	AudioConfig AudioConfig          `json:"audioConfig"`
}

// SynthesizeResponse is the cloud TTS text:synthesize response body.
// AudioContent is base64-decoded by encoding/json into raw audio bytes.
type SynthesizeResponse struct {
	AudioContent []byte `json:"audioContent"`
}
