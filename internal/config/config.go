package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	TTS     TTSConfig     `mapstructure:"tts"`
	Google  GoogleConfig  `mapstructure:"google"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TTSConfig holds synthesis engine settings.
type TTSConfig struct {
	Engine          string        `mapstructure:"engine"`
	APIKey          string        `mapstructure:"api_key"`
	Endpoint        string        `mapstructure:"endpoint"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key"`
	GeminiEndpoint  string        `mapstructure:"gemini_endpoint"`
	DefaultVoice    string        `mapstructure:"default_voice"`
	DefaultLanguage string        `mapstructure:"default_language"`
	DefaultSpeed    float64       `mapstructure:"default_speed"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CacheDir        string        `mapstructure:"cache_dir"`
}

// GoogleConfig holds OAuth settings for the Google Docs reader.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
}

// AudioConfig holds assembly settings.
type AudioConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	FFmpeg    string `mapstructure:"ffmpeg"`
	FFprobe   string `mapstructure:"ffprobe"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	Listen       string        `mapstructure:"listen"`
	APIKey       string        `mapstructure:"api_key"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HasTTSCredentials reports whether the configured engine has a credential.
func (c *Config) HasTTSCredentials() bool {
	if c.TTS.Engine == "gemini" {
		return c.TTS.GeminiAPIKey != ""
	}
	return c.TTS.APIKey != ""
}

// HasGoogleDocsCredentials reports whether the Docs OAuth triple is set.
func (c *Config) HasGoogleDocsCredentials() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != "" && c.Google.RefreshToken != ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		TTS: TTSConfig{
			Engine:          "google",
			DefaultVoice:    "ja-JP-Neural2-B",
			DefaultLanguage: "ja-JP",
			DefaultSpeed:    1.0,
			Timeout:         60 * time.Second,
		},
		Audio: AudioConfig{
			OutputDir: "output",
			FFmpeg:    "ffmpeg",
			FFprobe:   "ffprobe",
		},
		Server: ServerConfig{
			Listen:       "0.0.0.0:8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 300 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load returns a Config populated with defaults and environment overrides.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadWithDefaults(nil)
}

// LoadWithDefaults loads configuration using defaults and an optional
// overrides map (for tests).
func LoadWithDefaults(overrides map[string]interface{}) (*Config, error) {
	cfg := Default()
	applyEnvOverrides(cfg)

	if overrides != nil {
		raw, err := json.Marshal(overrides)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg. Callers who merge in a
// config file use it to keep the environment's precedence.
func ApplyEnv(cfg *Config) {
	applyEnvOverrides(cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOICE_ENGINE"); v != "" {
		cfg.TTS.Engine = v
	}
	if v := os.Getenv("VOICE_TTS_API_KEY"); v != "" {
		cfg.TTS.APIKey = v
	}
	if v := os.Getenv("VOICE_TTS_ENDPOINT"); v != "" {
		cfg.TTS.Endpoint = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.TTS.GeminiAPIKey = v
	}
	if v := os.Getenv("VOICE_GEMINI_ENDPOINT"); v != "" {
		cfg.TTS.GeminiEndpoint = v
	}
	if v := os.Getenv("DEFAULT_VOICE"); v != "" {
		cfg.TTS.DefaultVoice = v
	}
	if v := os.Getenv("DEFAULT_LANGUAGE"); v != "" {
		cfg.TTS.DefaultLanguage = v
	}
	if v := os.Getenv("DEFAULT_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TTS.DefaultSpeed = f
		}
	}
	if v := os.Getenv("VOICE_TTS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TTS.Timeout = d
		}
	}
	if v := os.Getenv("VOICE_CACHE_DIR"); v != "" {
		cfg.TTS.CacheDir = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Google.ClientSecret = v
	}
	if v := os.Getenv("GOOGLE_REFRESH_TOKEN"); v != "" {
		cfg.Google.RefreshToken = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Audio.OutputDir = v
	}
	if v := os.Getenv("VOICE_FFMPEG"); v != "" {
		cfg.Audio.FFmpeg = v
	}
	if v := os.Getenv("VOICE_FFPROBE"); v != "" {
		cfg.Audio.FFprobe = v
	}
	if v := os.Getenv("VOICE_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("VOICE_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("VOICE_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("VOICE_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("VOICE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VOICE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
