// Package voice maps speakers to voice configurations.
package voice

import (
	"sort"
	"strings"
)

// Config holds the synthesis parameters for one speaker.
type Config struct {
	Name         string
	LanguageCode string
	SpeakingRate float64
	Pitch        float64
	Style        string
}

// Preset names, shared across languages.
const (
	PresetMale1    = "male_1"
	PresetMale2    = "male_2"
	PresetFemale1  = "female_1"
	PresetFemale2  = "female_2"
	PresetNarrator = "narrator"
)

var presetOrder = []string{PresetMale1, PresetMale2, PresetFemale1, PresetFemale2, PresetNarrator}

var japaneseVoices = map[string]Config{
	PresetMale1:    {Name: "ja-JP-Neural2-C", LanguageCode: "ja-JP", SpeakingRate: 1.0},
	PresetMale2:    {Name: "ja-JP-Neural2-D", LanguageCode: "ja-JP", SpeakingRate: 1.0},
	PresetFemale1:  {Name: "ja-JP-Neural2-B", LanguageCode: "ja-JP", SpeakingRate: 1.0},
	PresetFemale2:  {Name: "ja-JP-Wavenet-A", LanguageCode: "ja-JP", SpeakingRate: 1.0},
	PresetNarrator: {Name: "ja-JP-Neural2-B", LanguageCode: "ja-JP", SpeakingRate: 0.9},
}

var englishVoices = map[string]Config{
	PresetMale1:    {Name: "en-US-Neural2-D", LanguageCode: "en-US", SpeakingRate: 1.0},
	PresetMale2:    {Name: "en-US-Neural2-J", LanguageCode: "en-US", SpeakingRate: 1.0},
	PresetFemale1:  {Name: "en-US-Neural2-F", LanguageCode: "en-US", SpeakingRate: 1.0},
	PresetFemale2:  {Name: "en-US-Neural2-C", LanguageCode: "en-US", SpeakingRate: 1.0},
	PresetNarrator: {Name: "en-US-Neural2-F", LanguageCode: "en-US", SpeakingRate: 0.9},
}

// Gemini prebuilt voice pools. The model takes a bare voice name and an
// optional style prompt instead of a language-scoped cloud voice.
var (
	geminiFemaleVoices = []string{"Aoede", "Kore", "Leda", "Zephyr"}
	geminiMaleVoices   = []string{"Charon", "Puck", "Orus", "Fenrir"}
)

var geminiPresets = map[string]Config{
	PresetMale1:    {Name: "Charon", SpeakingRate: 1.0},
	PresetMale2:    {Name: "Puck", SpeakingRate: 1.0},
	PresetFemale1:  {Name: "Aoede", SpeakingRate: 1.0},
	PresetFemale2:  {Name: "Kore", SpeakingRate: 1.0},
	PresetNarrator: {Name: "Kore", SpeakingRate: 0.9},
}

// Manager assigns voices to speakers. Explicit assignment wins; otherwise
// speakers get presets round-robin, in sorted speaker order for dialogue
// casts so assignment is deterministic across runs. Under the gemini engine
// the cast alternates female/male prebuilt voices with per-speaker style
// prompts, as the dialogue model expects.
type Manager struct {
	engine          string
	defaultLanguage string
	speakerVoices   map[string]Config
	nextIndex       int
}

// NewManager creates a manager for a synthesis engine and default language.
func NewManager(engine, defaultLanguage string) *Manager {
	if defaultLanguage == "" {
		defaultLanguage = "ja-JP"
	}
	return &Manager{
		engine:          engine,
		defaultLanguage: defaultLanguage,
		speakerVoices:   make(map[string]Config),
	}
}

func (m *Manager) presets() map[string]Config {
	if m.engine == "gemini" {
		return geminiPresets
	}
	if strings.HasPrefix(m.defaultLanguage, "ja") {
		return japaneseVoices
	}
	return englishVoices
}

// geminiCastVoice alternates female and male prebuilt voices over cast
// positions, each carrying a style prompt for the spoken language.
func (m *Manager) geminiCastVoice(i int) Config {
	language := "English"
	if strings.HasPrefix(m.defaultLanguage, "ja") {
		language = "Japanese"
	}

	if i%2 == 0 {
		return Config{
			Name:         geminiFemaleVoices[i/2%len(geminiFemaleVoices)],
			SpeakingRate: 1.0,
			Style:        "as an expressive young woman speaking " + language,
		}
	}
	return Config{
		Name:         geminiMaleVoices[i/2%len(geminiMaleVoices)],
		SpeakingRate: 1.0,
		Style:        "as a calm knowledgeable expert speaking " + language,
	}
}

// Assign pins a speaker to a specific voice.
func (m *Manager) Assign(speaker string, cfg Config) {
	m.speakerVoices[speaker] = cfg
}

// Voice returns the configuration for a speaker, auto-assigning a preset
// when none is pinned.
func (m *Manager) Voice(speaker string) Config {
	if cfg, ok := m.speakerVoices[speaker]; ok {
		return cfg
	}

	var cfg Config
	if m.engine == "gemini" {
		cfg = m.geminiCastVoice(m.nextIndex)
	} else {
		cfg = m.presets()[presetOrder[m.nextIndex%len(presetOrder)]]
	}
	m.speakerVoices[speaker] = cfg
	m.nextIndex++
	return cfg
}

// AssignCast gives each speaker in the set a distinct voice (cycling when
// the cast is larger than the pool). Speakers already pinned keep their
// voice.
func (m *Manager) AssignCast(speakers map[string]struct{}) map[string]Config {
	names := make([]string, 0, len(speakers))
	for s := range speakers {
		names = append(names, s)
	}
	sort.Strings(names)

	presets := m.presets()
	for i, speaker := range names {
		if _, ok := m.speakerVoices[speaker]; ok {
			continue
		}
		if m.engine == "gemini" {
			m.speakerVoices[speaker] = m.geminiCastVoice(i)
			continue
		}
		m.speakerVoices[speaker] = presets[presetOrder[i%len(presetOrder)]]
	}

	return m.speakerVoices
}

// Preset returns a preset configuration by name for the engine and default
// language.
func (m *Manager) Preset(name string) (Config, bool) {
	cfg, ok := m.presets()[name]
	return cfg, ok
}
