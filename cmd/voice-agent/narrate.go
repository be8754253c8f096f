package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
)

var (
	narrateOutput   string
	narrateVoice    string
	narrateGap      time.Duration
	narrateChapters bool
)

var narrateCmd = &cobra.Command{
	Use:   "narrate [input]",
	Short: "Narrate a markdown document section by section",
	Long: `Narrate splits a markdown document at second-level headings and reads
each section with a narration voice. Sections are joined into one file, or
written as numbered chapter files with --split-chapters.

Examples:
  voice-agent narrate book.md
  voice-agent narrate book.md --split-chapters
  voice-agent narrate book.md --voice ja-JP-Wavenet-A --gap 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().StringVarP(&narrateOutput, "output", "o", "", "Output file (default: input name with .mp3)")
	narrateCmd.Flags().StringVar(&narrateVoice, "voice", "", "Voice name or preset (default: narrator preset)")
	narrateCmd.Flags().DurationVar(&narrateGap, "gap", agent.DefaultNarrationGap, "Silence between sections")
	narrateCmd.Flags().BoolVar(&narrateChapters, "split-chapters", false, "Write one file per section")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	a, _, _, err := newAgent()
	if err != nil {
		return err
	}

	res, err := a.GenerateNarration(cmd.Context(), args[0], narrateOutput, narrateVoice, narrateGap, narrateChapters)
	if err != nil {
		return err
	}

	for _, out := range res.Outputs {
		fmt.Fprintf(os.Stderr, "Audio saved to %s\n", out)
	}
	return nil
}
