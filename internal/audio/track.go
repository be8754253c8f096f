package audio

import (
	"context"
	"fmt"
	"time"
)

const bgmFade = 2 * time.Second

// Clip is one audio file placed on the track timeline.
type Clip struct {
	Path   string
	Start  time.Duration
	Label  string
	Length time.Duration
}

// TrackBuilder lays out clips on a timeline and renders them into a single
// track, optionally under background music.
type TrackBuilder struct {
	runner *Runner
	clips  []Clip
}

// NewTrackBuilder creates an empty track builder.
func NewTrackBuilder(runner *Runner) *TrackBuilder {
	return &TrackBuilder{runner: runner}
}

// AddClip places a clip at the given start offset. The clip is probed and
// its duration returned so callers can position the next clip.
func (b *TrackBuilder) AddClip(ctx context.Context, path string, start time.Duration, label string) (time.Duration, error) {
	length, err := b.runner.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	b.clips = append(b.clips, Clip{Path: path, Start: start, Label: label, Length: length})
	return length, nil
}

// AddSequential places files one after another starting at start, leaving
// gap between consecutive clips. It returns the position after the last
// clip plus one gap, so callers can continue appending.
func (b *TrackBuilder) AddSequential(ctx context.Context, paths []string, gap, start time.Duration) (time.Duration, error) {
	pos := start
	for _, path := range paths {
		length, err := b.AddClip(ctx, path, pos, path)
		if err != nil {
			return pos, err
		}
		pos += length + gap
	}
	return pos, nil
}

// Clips returns the current timeline in insertion order.
func (b *TrackBuilder) Clips() []Clip {
	return b.clips
}

// Duration returns the total track length: the furthest clip end.
func (b *TrackBuilder) Duration() time.Duration {
	var max time.Duration
	for _, c := range b.clips {
		if end := c.Start + c.Length; end > max {
			max = end
		}
	}
	return max
}

// Build renders the timeline into out with loudness normalization.
func (b *TrackBuilder) Build(ctx context.Context, out string) error {
	if len(b.clips) == 0 {
		return fmt.Errorf("no clips on track")
	}
	if err := ensureDir(out); err != nil {
		return err
	}
	return b.runner.Run(ctx, mixArgs(b.clips, true, out))
}

// BuildWithBGM renders the timeline and mixes background music underneath.
// The music loops to the track length, is attenuated by volumeDB, and fades
// in and out.
func (b *TrackBuilder) BuildWithBGM(ctx context.Context, bgmPath string, volumeDB float64, out string, scratch string) error {
	if len(b.clips) == 0 {
		return fmt.Errorf("no clips on track")
	}
	if err := ensureDir(out); err != nil {
		return err
	}

	if err := b.runner.Run(ctx, mixArgs(b.clips, true, scratch)); err != nil {
		return fmt.Errorf("failed to render voice track: %w", err)
	}

	return b.runner.Run(ctx, bgmMixArgs(scratch, bgmPath, b.Duration(), volumeDB, bgmFade, out))
}

// Clear removes all clips from the timeline.
func (b *TrackBuilder) Clear() {
	b.clips = nil
}
