package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Processor assembles synthesized clips into output files.
type Processor struct {
	runner *Runner
}

// NewProcessor creates a processor backed by the given runner.
func NewProcessor(runner *Runner) *Processor {
	return &Processor{runner: runner}
}

// Check verifies the underlying audio tools are available.
func (p *Processor) Check() error {
	return p.runner.Check()
}

// Concat joins inputs in order into out.
func (p *Processor) Concat(ctx context.Context, inputs []string, out string) error {
	return p.ConcatWithSilence(ctx, inputs, 0, out)
}

// ConcatWithSilence joins inputs in order into out, inserting gap of
// silence between consecutive inputs. Input order is preserved.
func (p *Processor) ConcatWithSilence(ctx context.Context, inputs []string, gap time.Duration, out string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no inputs to concatenate")
	}

	if err := ensureDir(out); err != nil {
		return err
	}

	if len(inputs) == 1 && gap == 0 {
		return p.Transcode(ctx, inputs[0], out)
	}

	return p.runner.Run(ctx, concatArgs(inputs, gap, out))
}

// Transcode converts a single file to the container implied by the output
// extension.
func (p *Processor) Transcode(ctx context.Context, in, out string) error {
	if err := ensureDir(out); err != nil {
		return err
	}
	return p.runner.Run(ctx, []string{"-i", in, out})
}

// Duration returns the play time of an audio file.
func (p *Processor) Duration(ctx context.Context, path string) (time.Duration, error) {
	return p.runner.Probe(ctx, path)
}

func ensureDir(out string) error {
	dir := filepath.Dir(out)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
