package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/voice-agent-go/voice-agent-go/internal/config"
	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

const defaultGoogleEndpoint = "https://texttospeech.googleapis.com/v1"

// GoogleClient calls the Google Cloud Text-to-Speech REST API.
type GoogleClient struct {
	httpClient      *http.Client
	endpoint        string
	apiKey          string
	defaultVoice    string
	defaultLanguage string
	defaultSpeed    float64
}

// NewGoogleClient creates a client with connection pooling.
func NewGoogleClient(cfg *config.TTSConfig) *GoogleClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}

	return &GoogleClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		endpoint:        endpoint,
		apiKey:          cfg.APIKey,
		defaultVoice:    cfg.DefaultVoice,
		defaultLanguage: cfg.DefaultLanguage,
		defaultSpeed:    cfg.DefaultSpeed,
	}
}

// Synthesize renders one text segment into audio bytes.
func (c *GoogleClient) Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*Result, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: set VOICE_TTS_API_KEY to use the google engine", ErrMissingCredentials)
	}

	c.applyDefaults(spec)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	req := schema.SynthesizeRequest{
		Input: schema.SynthesisInput{Text: spec.Text},
		Voice: schema.VoiceSelectionParams{
			LanguageCode: spec.LanguageCode,
			Name:         spec.Voice,
		},
		AudioConfig: schema.AudioConfig{
			AudioEncoding: schema.EncodingForFormat(spec.Format),
			SpeakingRate:  spec.SpeakingRate,
			Pitch:         spec.Pitch,
		},
	}
	if spec.Voice == "" {
		req.Voice.SSMLGender = "NEUTRAL"
	}

	var resp schema.SynthesizeResponse
	if err := c.post(ctx, "/text:synthesize", &req, &resp); err != nil {
		return nil, err
	}

	if len(resp.AudioContent) == 0 {
		return nil, fmt.Errorf("empty audio content in response")
	}

	return &Result{Audio: resp.AudioContent, Format: spec.Format}, nil
}

// ListVoices returns the voices the service offers, optionally filtered by
// language code.
func (c *GoogleClient) ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: set VOICE_TTS_API_KEY to use the google engine", ErrMissingCredentials)
	}

	u := c.endpoint + "/voices?key=" + url.QueryEscape(c.apiKey)
	if languageCode != "" {
		u += "&languageCode=" + url.QueryEscape(languageCode)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

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

	var resp schema.ListVoicesResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.Voices, nil
}

func (c *GoogleClient) applyDefaults(spec *schema.SynthesisSpec) {
	if spec.Voice == "" {
		spec.Voice = c.defaultVoice
	}
	if spec.LanguageCode == "" {
		spec.LanguageCode = c.defaultLanguage
	}
	if spec.SpeakingRate == 0 {
		spec.SpeakingRate = c.defaultSpeed
	}
}

func (c *GoogleClient) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	u := c.endpoint + path + "?key=" + url.QueryEscape(c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return readAPIError(httpResp)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// readAPIError extracts the Google error envelope when present, falling
// back to the raw body.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope schema.CloudError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error.Message}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
}
