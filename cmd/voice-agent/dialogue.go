package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
)

var (
	dialogueOutput string
	dialogueGap    time.Duration
)

var dialogueCmd = &cobra.Command{
	Use:   "dialogue [script]",
	Short: "Generate a conversation from a multi-speaker script",
	Long: `Dialogue reads a script where each line names its speaker, assigns a
distinct voice to every speaker, and joins the synthesized lines into one
audio file.

Recognized line formats:
  [Alice]: Good morning.
  【アリス】: おはよう。
  Alice: Good morning.

Blank lines and lines starting with # are skipped.

Examples:
  voice-agent dialogue script.txt
  voice-agent dialogue script.txt -o podcast.mp3 --gap 750ms`,
	Args: cobra.ExactArgs(1),
	RunE: runDialogue,
}

func init() {
	dialogueCmd.Flags().StringVarP(&dialogueOutput, "output", "o", "", "Output file (default: script name with .mp3)")
	dialogueCmd.Flags().DurationVar(&dialogueGap, "gap", agent.DefaultDialogueGap, "Silence between lines")
}

func runDialogue(cmd *cobra.Command, args []string) error {
	a, _, _, err := newAgent()
	if err != nil {
		return err
	}

	out, err := a.GenerateDialogue(cmd.Context(), args[0], dialogueOutput, dialogueGap)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Audio saved to %s\n", out)
	return nil
}
