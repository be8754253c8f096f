package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
)

var (
	googleDocOutput   string
	googleDocVoice    string
	googleDocLanguage string
	googleDocSpeed    float64
)

var googleDocCmd = &cobra.Command{
	Use:   "google-doc [document-id]",
	Short: "Convert a Google Doc to audio",
	Long: `Fetches a Google Doc by its document ID and synthesizes the title and
body into a single audio file.

Requires GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, and GOOGLE_REFRESH_TOKEN.

Examples:
  voice-agent google-doc 1aBcDeFgHiJkLmN -o meeting-notes.mp3`,
	Args: cobra.ExactArgs(1),
	RunE: runGoogleDoc,
}

func init() {
	googleDocCmd.Flags().StringVarP(&googleDocOutput, "output", "o", "", "Output file (default: document ID with .mp3)")
	googleDocCmd.Flags().StringVar(&googleDocVoice, "voice", "", "Voice name (default: configured voice)")
	googleDocCmd.Flags().StringVar(&googleDocLanguage, "lang", "", "Language code, e.g. ja-JP or en-US")
	googleDocCmd.Flags().Float64Var(&googleDocSpeed, "speed", 0, "Speaking rate (0.25-4.0)")
}

func runGoogleDoc(cmd *cobra.Command, args []string) error {
	a, _, _, err := newAgent()
	if err != nil {
		return err
	}

	out, err := a.ConvertGoogleDoc(cmd.Context(), args[0], googleDocOutput, agent.ConvertOptions{
		Voice:    googleDocVoice,
		Language: googleDocLanguage,
		Speed:    googleDocSpeed,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Audio saved to %s\n", out)
	return nil
}
