// Package agent orchestrates document reading, speech synthesis, and audio
// assembly into the operations exposed by the CLI and the HTTP API.
package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/voice-agent-go/voice-agent-go/internal/audio"
	"github.com/voice-agent-go/voice-agent-go/internal/config"
	"github.com/voice-agent-go/voice-agent-go/internal/reader"
	"github.com/voice-agent-go/voice-agent-go/internal/schema"
	"github.com/voice-agent-go/voice-agent-go/internal/script"
	"github.com/voice-agent-go/voice-agent-go/internal/tts"
	"github.com/voice-agent-go/voice-agent-go/internal/voice"
)

// Default gaps inserted between adjacent segments, per operation.
const (
	DefaultDialogueGap  = 500 * time.Millisecond
	DefaultNarrationGap = 1000 * time.Millisecond
	DefaultTrackGap     = 300 * time.Millisecond
)

// DefaultBGMVolumeDB is how far background music sits below the voice track.
const DefaultBGMVolumeDB = -15.0

// Assembler joins and converts audio files on disk.
type Assembler interface {
	Check() error
	ConcatWithSilence(ctx context.Context, inputs []string, gap time.Duration, out string) error
	Transcode(ctx context.Context, in, out string) error
}

// TrackAssembler positions clips on a timeline and renders the result.
type TrackAssembler interface {
	AddClip(ctx context.Context, path string, start time.Duration, label string) (time.Duration, error)
	Duration() time.Duration
	Build(ctx context.Context, out string) error
	BuildWithBGM(ctx context.Context, bgmPath string, volumeDB float64, out, scratch string) error
}

// DocReader fetches a remote document body by ID.
type DocReader interface {
	Read(ctx context.Context, documentID string) (string, error)
}

// Agent ties a synthesizer, a voice manager, and the audio toolchain
// together. All operations are safe for sequential use; the agent holds no
// per-call state.
type Agent struct {
	cfg       *config.Config
	synth     tts.Synthesizer
	assembler Assembler
	newTrack  func() TrackAssembler
	docs      DocReader
	logger    zerolog.Logger
}

// New wires an agent from configuration: the engine named by cfg.TTS.Engine,
// an optional on-disk synthesis cache, and the ffmpeg-backed assembler.
func New(cfg *config.Config, logger zerolog.Logger) *Agent {
	var synth tts.Synthesizer
	if cfg.TTS.Engine == "gemini" {
		synth = tts.NewGeminiClient(&cfg.TTS)
	} else {
		synth = tts.NewGoogleClient(&cfg.TTS)
	}
	if cfg.TTS.CacheDir != "" {
		synth = tts.NewCachingSynthesizer(synth, cfg.TTS.CacheDir, logger)
	}

	runner := audio.NewRunner(&cfg.Audio)
	return &Agent{
		cfg:       cfg,
		synth:     synth,
		assembler: audio.NewProcessor(runner),
		newTrack:  func() TrackAssembler { return audio.NewTrackBuilder(runner) },
		docs:      reader.NewDocsReader(&cfg.Google),
		logger:    logger,
	}
}

// ConvertOptions override per-call synthesis parameters. Zero values fall
// back to the configured defaults.
type ConvertOptions struct {
	Voice    string
	Language string
	Speed    float64
	Style    string
}

// ConvertDocument reads a text, markdown, or Word file and synthesizes it
// into a single audio file at output.
func (a *Agent) ConvertDocument(ctx context.Context, input, output string, opts ConvertOptions) (string, error) {
	text, err := reader.LoadDocument(input)
	if err != nil {
		return "", err
	}
	return a.convertText(ctx, text, input, output, opts)
}

// ConvertGoogleDoc fetches a Google Doc by ID and synthesizes its body.
func (a *Agent) ConvertGoogleDoc(ctx context.Context, documentID, output string, opts ConvertOptions) (string, error) {
	text, err := a.docs.Read(ctx, documentID)
	if err != nil {
		return "", err
	}
	if output == "" {
		output = documentID + ".mp3"
	}
	return a.convertText(ctx, text, documentID, output, opts)
}

func (a *Agent) convertText(ctx context.Context, text, source, output string, opts ConvertOptions) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("document %s contains no text", source)
	}
	if output == "" {
		output = replaceExt(source, ".mp3")
	}

	spec := &schema.SynthesisSpec{
		Text:         text,
		Voice:        opts.Voice,
		LanguageCode: opts.Language,
		SpeakingRate: opts.Speed,
		StylePrompt:  opts.Style,
		Format:       schema.FormatForPath(output),
	}
	a.logger.Info().Str("source", source).Str("output", output).Msg("converting document")

	res, err := a.synth.Synthesize(ctx, spec)
	if err != nil {
		return "", err
	}
	if err := a.writeResult(ctx, res, output); err != nil {
		return "", err
	}
	return output, nil
}

// GenerateDialogue synthesizes a multi-speaker script into one audio file,
// assigning a distinct voice to each speaker and inserting gap between
// consecutive lines.
func (a *Agent) GenerateDialogue(ctx context.Context, scriptPath, output string, gap time.Duration) (string, error) {
	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", fmt.Errorf("failed to read script %s: %w", scriptPath, err)
	}
	if output == "" {
		output = replaceExt(scriptPath, ".mp3")
	}

	dialogue := script.ParseDialogue(string(content))
	if len(dialogue.Lines) == 0 {
		return "", fmt.Errorf("no dialogue lines recognized in %s", scriptPath)
	}
	if err := a.assembler.Check(); err != nil {
		return "", err
	}

	manager := voice.NewManager(a.cfg.TTS.Engine, a.cfg.TTS.DefaultLanguage)
	cast := manager.AssignCast(dialogue.Speakers)
	a.logger.Info().Int("lines", len(dialogue.Lines)).Int("speakers", len(cast)).Msg("generating dialogue")

	tmpDir, err := os.MkdirTemp("", "voice-dialogue-")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	clips := make([]string, 0, len(dialogue.Lines))
	for i, line := range dialogue.Lines {
		clip, err := a.synthesizeLine(ctx, tmpDir, i, line, manager)
		if err != nil {
			return "", err
		}
		clips = append(clips, clip)
	}

	if err := a.assembler.ConcatWithSilence(ctx, clips, gap, output); err != nil {
		return "", err
	}
	return output, nil
}

// GenerateDialogueAudio synthesizes a script held in memory and returns the
// joined WAV bytes. It needs no external tools, which keeps serve mode free
// of an ffmpeg dependency.
func (a *Agent) GenerateDialogueAudio(ctx context.Context, content string, gap time.Duration) ([]byte, error) {
	dialogue := script.ParseDialogue(content)
	if len(dialogue.Lines) == 0 {
		return nil, fmt.Errorf("no dialogue lines recognized")
	}

	manager := voice.NewManager(a.cfg.TTS.Engine, a.cfg.TTS.DefaultLanguage)
	manager.AssignCast(dialogue.Speakers)

	streams := make([][]byte, 0, len(dialogue.Lines))
	for _, line := range dialogue.Lines {
		vc := manager.Voice(line.Speaker)
		res, err := a.synth.Synthesize(ctx, &schema.SynthesisSpec{
			Text:         line.Text,
			Voice:        vc.Name,
			LanguageCode: vc.LanguageCode,
			SpeakingRate: vc.SpeakingRate,
			Pitch:        vc.Pitch,
			StylePrompt:  vc.Style,
			Format:       "wav",
		})
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", line.Number, line.Speaker, err)
		}
		streams = append(streams, res.Audio)
	}
	return audio.ConcatWAV(streams, gap)
}

// NarrationResult reports what GenerateNarration produced.
type NarrationResult struct {
	Outputs  []string
	Sections []string
}

// GenerateNarration reads a markdown document, splits it into sections at
// second-level headings, and narrates each one. With splitChapters the
// sections become numbered per-chapter files next to output; otherwise they
// are joined into output with gap between them.
func (a *Agent) GenerateNarration(ctx context.Context, input, output, voiceName string, gap time.Duration, splitChapters bool) (*NarrationResult, error) {
	text, err := reader.LoadDocument(input)
	if err != nil {
		return nil, err
	}
	if output == "" {
		output = replaceExt(input, ".mp3")
	}

	sections := script.ParseNarration(text)
	if len(sections) == 0 {
		return nil, fmt.Errorf("document %s contains no narratable sections", input)
	}
	if err := a.assembler.Check(); err != nil {
		return nil, err
	}

	vc := a.narrationVoice(voiceName)
	a.logger.Info().Int("sections", len(sections)).Str("voice", vc.Name).Msg("generating narration")

	tmpDir, err := os.MkdirTemp("", "voice-narrate-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	result := &NarrationResult{}
	clips := make([]string, 0, len(sections))
	for i, section := range sections {
		result.Sections = append(result.Sections, section.Title)
		res, err := a.synth.Synthesize(ctx, &schema.SynthesisSpec{
			Text:         section.Text,
			Voice:        vc.Name,
			LanguageCode: vc.LanguageCode,
			SpeakingRate: vc.SpeakingRate,
			Pitch:        vc.Pitch,
		})
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", section.Title, err)
		}
		clip := filepath.Join(tmpDir, fmt.Sprintf("section_%04d.%s", i, res.Format))
		if err := os.WriteFile(clip, res.Audio, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write clip: %w", err)
		}
		clips = append(clips, clip)
	}

	if splitChapters {
		for i, section := range sections {
			target := chapterPath(output, i+1, section.Title)
			if err := a.assembler.ConcatWithSilence(ctx, clips[i:i+1], 0, target); err != nil {
				return nil, err
			}
			result.Outputs = append(result.Outputs, target)
		}
		return result, nil
	}

	if err := a.assembler.ConcatWithSilence(ctx, clips, gap, output); err != nil {
		return nil, err
	}
	result.Outputs = []string{output}
	return result, nil
}

// TrackOptions control BuildTrack assembly.
type TrackOptions struct {
	Gap         time.Duration
	BGMPath     string
	BGMVolumeDB float64
}

// BuildTrack synthesizes a script onto a timeline, placing each line after
// the previous one, and renders the mix. When a background music path is
// given the music is looped under the voices at the configured level.
func (a *Agent) BuildTrack(ctx context.Context, scriptPath, output string, opts TrackOptions) (string, error) {
	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return "", fmt.Errorf("failed to read script %s: %w", scriptPath, err)
	}
	if output == "" {
		output = replaceExt(scriptPath, ".mp3")
	}
	if opts.Gap == 0 {
		opts.Gap = DefaultTrackGap
	}
	if opts.BGMVolumeDB == 0 {
		opts.BGMVolumeDB = DefaultBGMVolumeDB
	}

	dialogue := script.ParseDialogue(string(content))
	if len(dialogue.Lines) == 0 {
		return "", fmt.Errorf("no dialogue lines recognized in %s", scriptPath)
	}
	if err := a.assembler.Check(); err != nil {
		return "", err
	}

	manager := voice.NewManager(a.cfg.TTS.Engine, a.cfg.TTS.DefaultLanguage)
	manager.AssignCast(dialogue.Speakers)

	tmpDir, err := os.MkdirTemp("", "voice-track-")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	track := a.newTrack()
	pos := time.Duration(0)
	for i, line := range dialogue.Lines {
		clip, err := a.synthesizeLine(ctx, tmpDir, i, line, manager)
		if err != nil {
			return "", err
		}
		length, err := track.AddClip(ctx, clip, pos, line.Speaker)
		if err != nil {
			return "", err
		}
		pos += length + opts.Gap
	}

	a.logger.Info().
		Int("clips", len(dialogue.Lines)).
		Dur("duration", track.Duration()).
		Bool("bgm", opts.BGMPath != "").
		Msg("rendering track")

	if opts.BGMPath != "" {
		scratch := filepath.Join(tmpDir, "voices.wav")
		if err := track.BuildWithBGM(ctx, opts.BGMPath, opts.BGMVolumeDB, output, scratch); err != nil {
			return "", err
		}
		return output, nil
	}
	if err := track.Build(ctx, output); err != nil {
		return "", err
	}
	return output, nil
}

// Synthesize runs a single synthesis request through the configured engine.
func (a *Agent) Synthesize(ctx context.Context, spec *schema.SynthesisSpec) (*tts.Result, error) {
	return a.synth.Synthesize(ctx, spec)
}

// ListVoices returns the voices the configured engine offers, optionally
// filtered by language code.
func (a *Agent) ListVoices(ctx context.Context, languageCode string) ([]schema.Voice, error) {
	voices, err := a.synth.ListVoices(ctx, languageCode)
	if err != nil {
		return nil, err
	}
	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })
	return voices, nil
}

func (a *Agent) synthesizeLine(ctx context.Context, dir string, i int, line script.Line, manager *voice.Manager) (string, error) {
	vc := manager.Voice(line.Speaker)
	res, err := a.synth.Synthesize(ctx, &schema.SynthesisSpec{
		Text:         line.Text,
		Voice:        vc.Name,
		LanguageCode: vc.LanguageCode,
		SpeakingRate: vc.SpeakingRate,
		Pitch:        vc.Pitch,
		StylePrompt:  vc.Style,
	})
	if err != nil {
		return "", fmt.Errorf("line %d (%s): %w", line.Number, line.Speaker, err)
	}
	clip := filepath.Join(dir, fmt.Sprintf("line_%04d.%s", i, res.Format))
	if err := os.WriteFile(clip, res.Audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write clip: %w", err)
	}
	return clip, nil
}

func (a *Agent) narrationVoice(name string) voice.Config {
	if name == "" {
		if preset, ok := voice.NewManager(a.cfg.TTS.Engine, a.cfg.TTS.DefaultLanguage).Preset(voice.PresetNarrator); ok {
			return preset
		}
	}
	vc := voice.Config{Name: name, LanguageCode: a.cfg.TTS.DefaultLanguage, SpeakingRate: a.cfg.TTS.DefaultSpeed}
	if preset, ok := voice.NewManager(a.cfg.TTS.Engine, a.cfg.TTS.DefaultLanguage).Preset(name); ok {
		vc = preset
	}
	return vc
}

// writeResult stores a synthesis result at output, converting the container
// when the engine produced a different format than the path implies.
func (a *Agent) writeResult(ctx context.Context, res *tts.Result, output string) error {
	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if res.Format == schema.FormatForPath(output) {
		if err := os.WriteFile(output, res.Audio, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		return nil
	}

	if err := a.assembler.Check(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp("", "voice-convert-*."+res.Format)
	if err != nil {
		return fmt.Errorf("failed to create work file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(res.Audio); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write work file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return a.assembler.Transcode(ctx, tmp.Name(), output)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// chapterPath names a per-chapter file from the joined output path, a
// 1-based chapter number, and the section title.
func chapterPath(output string, number int, title string) string {
	dir := filepath.Dir(output)
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(filepath.Base(output), ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%02d_%s%s", stem, number, safeTitle(title), ext))
}

// safeTitle reduces a section title to characters safe in a file name.
func safeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "section"
	}
	return s
}
