package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

type countingSynthesizer struct {
	calls int
}

func (s *countingSynthesizer) Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*Result, error) {
	s.calls++
	return &Result{Audio: []byte("audio for " + spec.Text), Format: spec.Format}, nil
}

func (s *countingSynthesizer) ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error) {
	return nil, nil
}

func TestCacheHitSkipsInner(t *testing.T) {
	inner := &countingSynthesizer{}
	cache := NewCachingSynthesizer(inner, t.TempDir(), zerolog.Nop())

	spec := schema.SynthesisSpec{Text: "hello", Voice: "ja-JP-Neural2-B"}

	first, err := cache.Synthesize(context.Background(), &spec)
	require.NoError(t, err)

	again := spec
	second, err := cache.Synthesize(context.Background(), &again)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first.Audio, second.Audio)
	assert.Equal(t, first.Format, second.Format)
}

func TestCacheMissOnAnyParameterChange(t *testing.T) {
	inner := &countingSynthesizer{}
	cache := NewCachingSynthesizer(inner, t.TempDir(), zerolog.Nop())

	base := schema.SynthesisSpec{Text: "hello", Voice: "ja-JP-Neural2-B"}

	variants := []schema.SynthesisSpec{
		{Text: "hello!", Voice: base.Voice},
		{Text: base.Text, Voice: "ja-JP-Neural2-C"},
		{Text: base.Text, Voice: base.Voice, SpeakingRate: 1.5},
		{Text: base.Text, Voice: base.Voice, Pitch: 2},
		{Text: base.Text, Voice: base.Voice, Format: "wav"},
		{Text: base.Text, Voice: base.Voice, StylePrompt: "calmly"},
	}

	spec := base
	_, err := cache.Synthesize(context.Background(), &spec)
	require.NoError(t, err)

	for i := range variants {
		_, err := cache.Synthesize(context.Background(), &variants[i])
		require.NoError(t, err)
	}

	assert.Equal(t, 1+len(variants), inner.calls)
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := schema.SynthesisSpec{Text: "x", Voice: "v", SpeakingRate: 1, Format: "mp3"}
	b := a

	ka, err := cacheKey(&a)
	require.NoError(t, err)
	kb, err := cacheKey(&b)
	require.NoError(t, err)

	assert.Equal(t, ka, kb)
	assert.Len(t, ka, 64)
}

func TestCacheResolvesEngineDefaults(t *testing.T) {
	var captured schema.SynthesizeRequest
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("audio")),
		})
	}))
	defer mockServer.Close()

	cfg := googleTestConfig(mockServer.URL)
	cfg.DefaultSpeed = 1.5
	cache := NewCachingSynthesizer(NewGoogleClient(cfg), t.TempDir(), zerolog.Nop())

	_, err := cache.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hello"})
	require.NoError(t, err)

	assert.Equal(t, 1.5, captured.AudioConfig.SpeakingRate)
	assert.Equal(t, "ja-JP-Neural2-B", captured.Voice.Name)
}

func TestCacheKeyCoversConfiguredVoice(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req schema.SynthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString([]byte("audio for " + req.Voice.Name)),
		})
	}))
	defer mockServer.Close()

	dir := t.TempDir()

	cfgA := googleTestConfig(mockServer.URL)
	cfgA.DefaultVoice = "ja-JP-Neural2-B"
	cacheA := NewCachingSynthesizer(NewGoogleClient(cfgA), dir, zerolog.Nop())

	first, err := cacheA.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []byte("audio for ja-JP-Neural2-B"), first.Audio)

	// same cache dir, different configured voice: the empty-voice spec must
	// not be served the other voice's clip
	cfgB := googleTestConfig(mockServer.URL)
	cfgB.DefaultVoice = "ja-JP-Neural2-C"
	cacheB := NewCachingSynthesizer(NewGoogleClient(cfgB), dir, zerolog.Nop())

	second, err := cacheB.Synthesize(context.Background(), &schema.SynthesisSpec{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []byte("audio for ja-JP-Neural2-C"), second.Audio)
}

func TestCacheInvalidSpecRejected(t *testing.T) {
	inner := &countingSynthesizer{}
	cache := NewCachingSynthesizer(inner, t.TempDir(), zerolog.Nop())

	_, err := cache.Synthesize(context.Background(), &schema.SynthesisSpec{})
	require.Error(t, err)
	assert.Zero(t, inner.calls)
}
