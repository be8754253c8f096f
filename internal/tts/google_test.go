package tts

import (
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

	"github.com/voice-agent-go/voice-agent-go/internal/config"
	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

func googleTestConfig(endpoint string) *config.TTSConfig {
	return &config.TTSConfig{
		APIKey:          "test-key",
		Endpoint:        endpoint,
		DefaultVoice:    "ja-JP-Neural2-B",
		DefaultLanguage: "ja-JP",
		DefaultSpeed:    1.0,
		Timeout:         10 * time.Second,
	}
}

func TestGoogleSynthesize_Success(t *testing.T) {
	audio := []byte("fake mp3 bytes")

	var captured schema.SynthesizeRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/text:synthesize", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString(audio),
		})
	}))
	defer mockServer.Close()

	client := NewGoogleClient(googleTestConfig(mockServer.URL))

	res, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "こんにちは"})

	require.NoError(t, err)
	assert.Equal(t, audio, res.Audio)
	assert.Equal(t, "mp3", res.Format)

	assert.Equal(t, "こんにちは", captured.Input.Text)
	assert.Equal(t, "ja-JP-Neural2-B", captured.Voice.Name)
	assert.Equal(t, "ja-JP", captured.Voice.LanguageCode)
	assert.Equal(t, "MP3", captured.AudioConfig.AudioEncoding)
	assert.Equal(t, 1.0, captured.AudioConfig.SpeakingRate)
}

func TestGoogleSynthesize_WavEncoding(t *testing.T) {
	var captured schema.SynthesizeRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]string{"audioContent": "UklGRg=="})
	}))
	defer mockServer.Close()

	client := NewGoogleClient(googleTestConfig(mockServer.URL))

	res, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi", Format: "wav"})

	require.NoError(t, err)
	assert.Equal(t, "wav", res.Format)
	assert.Equal(t, "LINEAR16", captured.AudioConfig.AudioEncoding)
}

func TestGoogleSynthesize_MissingCredentials(t *testing.T) {
	cfg := googleTestConfig("http://localhost:1")
	cfg.APIKey = ""
	client := NewGoogleClient(cfg)

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestGoogleSynthesize_APIError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The request is missing a valid API key.","status":"PERMISSION_DENIED"}}`))
	}))
	defer mockServer.Close()

	client := NewGoogleClient(googleTestConfig(mockServer.URL))

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi"})

	require.Error(t, err)
	assert.True(t, IsAPIError(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "missing a valid API key")
}

func TestGoogleSynthesize_Timeout(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
	}))
	defer mockServer.Close()

	cfg := googleTestConfig(mockServer.URL)
	cfg.Timeout = 100 * time.Millisecond
	client := NewGoogleClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Synthesize(ctx, &schema.SynthesisSpec{Text: "hi"})

	require.Error(t, err)
}

func TestGoogleSynthesize_InvalidSpec(t *testing.T) {
	client := NewGoogleClient(googleTestConfig("http://localhost:1"))

	_, err := client.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hi", Pitch: 50})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pitch")
}

func TestGoogleListVoices(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)
		assert.Equal(t, "ja-JP", r.URL.Query().Get("languageCode"))
		w.Write([]byte(`{"voices":[{"name":"ja-JP-Neural2-B","languageCodes":["ja-JP"],"ssmlGender":"FEMALE","naturalSampleRateHertz":24000}]}`))
	}))
	defer mockServer.Close()

	client := NewGoogleClient(googleTestConfig(mockServer.URL))

	voices, err := client.ListVoices(context.Background(), "ja-JP")

	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "ja-JP-Neural2-B", voices[0].Name)
	assert.Equal(t, "FEMALE", voices[0].SSMLGender)
	assert.Equal(t, 24000, voices[0].NaturalSampleRateHertz)
}

func TestGoogleListVoices_MissingCredentials(t *testing.T) {
	cfg := googleTestConfig("http://localhost:1")
	cfg.APIKey = ""
	client := NewGoogleClient(cfg)

	_, err := client.ListVoices(context.Background(), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}
