package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/voice-agent-go/voice-agent-go/internal/audio"
	"github.com/voice-agent-go/voice-agent-go/internal/config"
	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	geminiTTSModel        = "gemini-2.5-flash-preview-tts"
	defaultGeminiVoice    = "Kore"
)

// geminiVoices are the prebuilt voices the TTS model offers. The model has
// no list endpoint, so ListVoices serves this table.
var geminiVoices = []schema.Voice{
	{Name: "Aoede", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "FEMALE", NaturalSampleRateHertz: 24000},
	{Name: "Kore", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "FEMALE", NaturalSampleRateHertz: 24000},
	{Name: "Leda", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "FEMALE", NaturalSampleRateHertz: 24000},
	{Name: "Zephyr", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "FEMALE", NaturalSampleRateHertz: 24000},
	{Name: "Puck", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "MALE", NaturalSampleRateHertz: 24000},
	{Name: "Charon", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "MALE", NaturalSampleRateHertz: 24000},
	{Name: "Orus", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "MALE", NaturalSampleRateHertz: 24000},
	{Name: "Fenrir", LanguageCodes: []string{"ja-JP", "en-US"}, SSMLGender: "MALE", NaturalSampleRateHertz: 24000},
}

// GeminiClient calls the Gemini TTS model for natural, expressive speech.
// The model returns raw 24 kHz 16-bit mono PCM, which is wrapped into WAV;
// callers transcode when a different container is requested.
type GeminiClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
}

// NewGeminiClient creates a client with connection pooling.
func NewGeminiClient(cfg *config.TTSConfig) *GeminiClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	endpoint := cfg.GeminiEndpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}

	return &GeminiClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		endpoint: endpoint,
		apiKey:   cfg.GeminiAPIKey,
		model:    geminiTTSModel,
	}
}

// Synthesize renders one text segment into WAV audio.
func (c *GeminiClient) Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY to use the gemini engine", ErrMissingCredentials)
	}

	c.applyDefaults(spec)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	prompt := spec.Text
	if spec.StylePrompt != "" {
		prompt = fmt.Sprintf("Say %s: %s", spec.StylePrompt, spec.Text)
	}

	req := schema.GeminiGenerateRequest{
		Contents: []schema.GeminiContent{
			{Parts: []schema.GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: schema.GeminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &schema.GeminiSpeechConfig{
				VoiceConfig: schema.GeminiVoiceConfig{
					PrebuiltVoiceConfig: schema.GeminiPrebuiltVoiceConfig{VoiceName: spec.Voice},
				},
			},
		},
	}

	body, err := json.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, readAPIError(httpResp)
	}

	var resp schema.GeminiGenerateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	pcm := extractInlineAudio(&resp)
	if len(pcm) == 0 {
		return nil, fmt.Errorf("no audio in model response")
	}

	return &Result{
		Audio:  audio.EncodeWAV(pcm, audio.DefaultPCMParams),
		Format: "wav",
	}, nil
}

func (c *GeminiClient) applyDefaults(spec *schema.SynthesisSpec) {
	if spec.Voice == "" {
		spec.Voice = defaultGeminiVoice
	}
}

// ListVoices returns the prebuilt Gemini voices.
func (c *GeminiClient) ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error) {
	if languageCode == "" {
		return geminiVoices, nil
	}

	var filtered []schema.Voice
	for _, v := range geminiVoices {
		for _, lc := range v.LanguageCodes {
			if lc == languageCode {
				filtered = append(filtered, v)
				break
			}
		}
	}
	return filtered, nil
}

func extractInlineAudio(resp *schema.GeminiGenerateResponse) []byte {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
