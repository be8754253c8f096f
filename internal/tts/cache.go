package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/voice-agent-go/voice-agent-go/internal/schema"
)

// cacheEntry is the msgpack metadata stored next to each cached clip.
type cacheEntry struct {
	Format    string    `msgpack:"format"`
	Size      int64     `msgpack:"size"`
	CreatedAt time.Time `msgpack:"created_at"`
}

// CachingSynthesizer wraps a Synthesizer with a content-addressed on-disk
// cache. A hit must be byte-identical output, so the key covers every
// synthesis parameter.
type CachingSynthesizer struct {
	inner  Synthesizer
	dir    string
	logger zerolog.Logger
}

// NewCachingSynthesizer wraps inner with a cache rooted at dir.
func NewCachingSynthesizer(inner Synthesizer, dir string, logger zerolog.Logger) *CachingSynthesizer {
	return &CachingSynthesizer{inner: inner, dir: dir, logger: logger}
}

// defaultsResolver is implemented by engines whose configuration fills in
// unset spec fields.
type defaultsResolver interface {
	applyDefaults(spec *schema.SynthesisSpec)
}

// Synthesize returns the cached clip when present, otherwise delegates and
// stores the result. Cache write failures are logged, never fatal.
//
// The inner engine's defaults are resolved into the spec before the key is
// computed. Keying an unresolved spec would both mask the configured
// defaults (Validate fills rate 1.0 before the engine sees the zero value)
// and collide specs that resolve to different voices.
func (c *CachingSynthesizer) Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*Result, error) {
	if resolver, ok := c.inner.(defaultsResolver); ok {
		resolver.applyDefaults(spec)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	key, err := cacheKey(spec)
	if err != nil {
		return c.inner.Synthesize(ctx, spec)
	}

	if res, ok := c.load(key); ok {
		c.logger.Debug().Str("key", key).Msg("segment cache hit")
		return res, nil
	}

	res, err := c.inner.Synthesize(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := c.store(key, res); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to write segment cache")
	}

	return res, nil
}

// ListVoices delegates to the wrapped synthesizer.
func (c *CachingSynthesizer) ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error) {
	return c.inner.ListVoices(ctx, languageCode)
}

func (c *CachingSynthesizer) load(key string) (*Result, bool) {
	metaRaw, err := os.ReadFile(c.metaPath(key))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := msgpack.Unmarshal(metaRaw, &entry); err != nil {
		return nil, false
	}

	data, err := os.ReadFile(c.audioPath(key))
	if err != nil || int64(len(data)) != entry.Size {
		return nil, false
	}

	return &Result{Audio: data, Format: entry.Format}, true
}

func (c *CachingSynthesizer) store(key string, res *Result) error {
	dir := filepath.Dir(c.audioPath(key))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(c.audioPath(key), res.Audio, 0o644); err != nil {
		return err
	}

	entry := cacheEntry{
		Format:    res.Format,
		Size:      int64(len(res.Audio)),
		CreatedAt: time.Now().UTC(),
	}
	metaRaw, err := msgpack.Marshal(&entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.metaPath(key), metaRaw, 0o644)
}

func (c *CachingSynthesizer) audioPath(key string) string {
	return filepath.Join(c.dir, key[:2], key+".audio")
}

func (c *CachingSynthesizer) metaPath(key string) string {
	return filepath.Join(c.dir, key[:2], key+".meta")
}

// cacheKey hashes the msgpack encoding of the spec, so any parameter change
// produces a different key.
func cacheKey(spec *schema.SynthesisSpec) (string, error) {
	raw, err := msgpack.Marshal(spec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
