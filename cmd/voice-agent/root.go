package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
	"github.com/voice-agent-go/voice-agent-go/internal/config"
)

var (
	cfgFile       string
	flagEngine    string
	flagLogLevel  string
	flagLogFormat string

	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "voice-agent",
	Short: "Convert documents and scripts into narrated audio",
	Long: `voice-agent turns text, markdown, and Word documents into speech, and
multi-speaker scripts into conversations with a distinct voice per speaker.

Examples:
  # Convert a document to audio
  voice-agent convert report.docx -o report.mp3

  # Generate a conversation from a tagged script
  voice-agent dialogue script.txt

  # Narrate a markdown document chapter by chapter
  voice-agent narrate book.md --split-chapters

  # Assemble a timeline with background music
  voice-agent track script.txt --bgm music.mp3

Credentials come from the environment or a .env file:
  VOICE_TTS_API_KEY for the google engine, GEMINI_API_KEY for gemini.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voice-agent %s\n", Version)
		fmt.Printf("  Commit:     %s\n", Commit)
		fmt.Printf("  Build Date: %s\n", BuildDate)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", "Synthesis engine: google or gemini (default: VOICE_ENGINE or google)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (json, console)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(googleDocCmd)
	rootCmd.AddCommand(dialogueCmd)
	rootCmd.AddCommand(narrateCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, then the config
// file when one was found, then the environment, then the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if viper.ConfigFileUsed() != "" {
		if err := viper.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		config.ApplyEnv(cfg)
	}
	if flagEngine != "" {
		cfg.TTS.Engine = flagEngine
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
	return cfg, nil
}

func newAgent() (*agent.Agent, *config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, zerolog.Nop(), err
	}
	logger := setupLogger(cfg.Logging)
	return agent.New(cfg, logger), cfg, logger, nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
