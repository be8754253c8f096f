package tts

import (
	"context"

	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

// Result is the outcome of one synthesis call.
type Result struct {
	Audio  []byte
	Format string
}

// Synthesizer converts one text segment into audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*Result, error)
	ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error)
}

// Ensure the engines implement Synthesizer.
var (
	_ Synthesizer = (*GoogleClient)(nil)
	_ Synthesizer = (*GeminiClient)(nil)
	_ Synthesizer = (*CachingSynthesizer)(nil)
)
