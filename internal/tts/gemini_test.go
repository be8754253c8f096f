package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voice-agent-go/voice-agent-go/internal/audio"
	"github.com/voice-agent-go/voice-agent-go/internal/config"
	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

func geminiTestConfig(endpoint string) *config.TTSConfig {
	return &config.TTSConfig{
		GeminiAPIKey:   "gemini-key",
		GeminiEndpoint: endpoint,
		Timeout:        10 * time.Second,
	}
}

func geminiAudioResponse(pcm []byte) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"inlineData": map[string]string{
							"mimeType": "audio/L16;codec=pcm;rate=24000",
							"data":     base64.StdEncoding.EncodeToString(pcm),
						}},
					},
				},
			},
		},
	}
}

func TestGeminiSynthesize_WrapsPCMInWAV(t *testing.T) {
	pcm := make([]byte, 4800)

	var captured schema.GeminiGenerateRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash-preview-tts:generateContent", r.URL.Path)
		assert.Equal(t, "gemini-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(geminiAudioResponse(pcm))
	}))
	defer mockServer.Close()

	client := NewGeminiClient(geminiTestConfig(mockServer.URL))

	res, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "こんにちは", Voice: "Puck"})

	require.NoError(t, err)
	assert.Equal(t, "wav", res.Format)

	params, data, err := audio.DecodeWAV(bytes.NewReader(res.Audio))
	require.NoError(t, err)
	assert.Equal(t, audio.DefaultPCMParams, params)
	assert.Equal(t, pcm, data)

	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "こんにちは", captured.Contents[0].Parts[0].Text)
	assert.Equal(t, []string{"AUDIO"}, captured.GenerationConfig.ResponseModalities)
	assert.Equal(t, "Puck", captured.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestGeminiSynthesize_StylePrompt(t *testing.T) {
	var captured schema.GeminiGenerateRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(geminiAudioResponse([]byte{0, 0}))
	}))
	defer mockServer.Close()

	client := NewGeminiClient(geminiTestConfig(mockServer.URL))

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{
		Text:        "Hello",
		StylePrompt: "cheerfully",
	})

	require.NoError(t, err)
	assert.Equal(t, "Say cheerfully: Hello", captured.Contents[0].Parts[0].Text)
}

func TestGeminiSynthesize_DefaultVoice(t *testing.T) {
	var captured schema.GeminiGenerateRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(geminiAudioResponse([]byte{0, 0}))
	}))
	defer mockServer.Close()

	client := NewGeminiClient(geminiTestConfig(mockServer.URL))

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "Kore", captured.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestGeminiSynthesize_MissingCredentials(t *testing.T) {
	cfg := geminiTestConfig("http://localhost:1")
	cfg.GeminiAPIKey = ""
	client := NewGeminiClient(cfg)

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestGeminiSynthesize_NoAudioInResponse(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer mockServer.Close()

	client := NewGeminiClient(geminiTestConfig(mockServer.URL))

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio")
}

func TestGeminiListVoices_Filter(t *testing.T) {
	client := NewGeminiClient(geminiTestConfig("http://localhost:1"))

	all, err := client.ListVoices(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 8)

	ja, err := client.ListVoices(context.Background(), "ja-JP")
	require.NoError(t, err)
	assert.Len(t, ja, 8)

	none, err := client.ListVoices(context.Background(), "fr-FR")
	require.NoError(t, err)
	assert.Empty(t, none)
}
