package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/voice-agent-go/voice-agent-go/internal/config"
)

// ErrToolNotFound indicates ffmpeg or ffprobe is missing from the PATH.
var ErrToolNotFound = errors.New("audio tool not found")

// Runner executes ffmpeg and ffprobe.
type Runner struct {
	ffmpeg  string
	ffprobe string
}

// NewRunner creates a runner using the configured tool names.
func NewRunner(cfg *config.AudioConfig) *Runner {
	ffmpeg := cfg.FFmpeg
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := cfg.FFprobe
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &Runner{ffmpeg: ffmpeg, ffprobe: ffprobe}
}

// Check verifies both tools are resolvable. Call before any audio assembly
// so the failure is a single clear message rather than a mid-run error.
func (r *Runner) Check() error {
	for _, tool := range []string{r.ffmpeg, r.ffprobe} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s is required for audio assembly, install ffmpeg and ensure it is on your PATH", ErrToolNotFound, tool)
		}
	}
	return nil
}

// Run executes ffmpeg with the given arguments, overwriting outputs.
func (r *Runner) Run(ctx context.Context, args []string) error {
	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)

	cmd := exec.CommandContext(ctx, r.ffmpeg, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrToolNotFound, r.ffmpeg)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s failed: %w", r.ffmpeg, err)
		}
		return fmt.Errorf("%s failed: %s", r.ffmpeg, msg)
	}

	return nil
}

// Probe returns the duration of an audio file via ffprobe.
func (r *Runner) Probe(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, r.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", ErrToolNotFound, r.ffprobe)
		}
		return 0, fmt.Errorf("%s failed for %s: %w", r.ffprobe, path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected %s output %q: %w", r.ffprobe, strings.TrimSpace(string(out)), err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
