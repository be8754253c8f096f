package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
)

var (
	trackOutput    string
	trackGap       time.Duration
	trackBGM       string
	trackBGMVolume float64
)

var trackCmd = &cobra.Command{
	Use:   "track [script]",
	Short: "Assemble a script onto a timeline, optionally over background music",
	Long: `Track synthesizes each line of a multi-speaker script, places the
clips one after another on a timeline, and renders the mix. With --bgm the
music is looped under the voices for the full duration and faded in and out.

Examples:
  voice-agent track script.txt
  voice-agent track script.txt --bgm music.mp3
  voice-agent track script.txt --bgm music.mp3 --bgm-volume -20`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVarP(&trackOutput, "output", "o", "", "Output file (default: script name with .mp3)")
	trackCmd.Flags().DurationVar(&trackGap, "gap", agent.DefaultTrackGap, "Silence between clips")
	trackCmd.Flags().StringVar(&trackBGM, "bgm", "", "Background music file")
	trackCmd.Flags().Float64Var(&trackBGMVolume, "bgm-volume", agent.DefaultBGMVolumeDB, "Music level relative to voices, in dB")
}

func runTrack(cmd *cobra.Command, args []string) error {
	a, _, _, err := newAgent()
	if err != nil {
		return err
	}

	out, err := a.BuildTrack(cmd.Context(), args[0], trackOutput, agent.TrackOptions{
		Gap:         trackGap,
		BGMPath:     trackBGM,
		BGMVolumeDB: trackBGMVolume,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Audio saved to %s\n", out)
	return nil
}
