package main

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := loadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "google", cfg.TTS.Engine)
	assert.Equal(t, "ja-JP", cfg.TTS.DefaultLanguage)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
	assert.Equal(t, "", cfg.Server.APIKey)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfigFromEnv(t *testing.T) {
	viper.Reset()
	os.Setenv("VOICE_ENGINE", "gemini")
	os.Setenv("VOICE_LISTEN", "0.0.0.0:9090")
	os.Setenv("VOICE_SERVER_API_KEY", "test-key")
	os.Setenv("VOICE_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("VOICE_ENGINE")
		os.Unsetenv("VOICE_LISTEN")
		os.Unsetenv("VOICE_SERVER_API_KEY")
		os.Unsetenv("VOICE_LOG_LEVEL")
	}()

	cfg, err := loadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "gemini", cfg.TTS.Engine)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Listen)
	assert.Equal(t, "test-key", cfg.Server.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestVoicesHelpMatchesFlags(t *testing.T) {
	assert.NotNil(t, voicesCmd.Flags().Lookup("lang"))
	assert.Nil(t, voicesCmd.Flags().Lookup("language"))
	assert.Contains(t, voicesCmd.Long, "--lang")
	assert.NotContains(t, voicesCmd.Long, "--language")
}

func TestFlagOverrides(t *testing.T) {
	viper.Reset()
	flagEngine = "gemini"
	flagLogLevel = "warn"
	defer func() {
		flagEngine = ""
		flagLogLevel = ""
	}()

	cfg, err := loadConfig()
	assert.NoError(t, err)

	assert.Equal(t, "gemini", cfg.TTS.Engine)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
