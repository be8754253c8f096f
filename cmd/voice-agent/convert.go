package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voice-agent-go/voice-agent-go/internal/agent"
)

var (
	convertOutput   string
	convertVoice    string
	convertLanguage string
	convertSpeed    float64
	convertStyle    string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input]",
	Short: "Convert a text, markdown, or Word document to audio",
	Long: `Convert reads a .txt, .md, or .docx file and synthesizes it into a
single audio file. The output format follows the output file extension.

Examples:
  voice-agent convert report.txt
  voice-agent convert report.docx -o report.mp3 --voice ja-JP-Neural2-B
  voice-agent convert notes.md -o notes.wav --speed 1.2`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default: input name with .mp3)")
	convertCmd.Flags().StringVar(&convertVoice, "voice", "", "Voice name (default: configured voice)")
	convertCmd.Flags().StringVar(&convertLanguage, "lang", "", "Language code, e.g. ja-JP or en-US")
	convertCmd.Flags().Float64Var(&convertSpeed, "speed", 0, "Speaking rate (0.25-4.0)")
	convertCmd.Flags().StringVar(&convertStyle, "style", "", "Style prompt for the gemini engine")
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, _, _, err := newAgent()
	if err != nil {
		return err
	}

	out, err := a.ConvertDocument(cmd.Context(), args[0], convertOutput, agent.ConvertOptions{
		Voice:    convertVoice,
		Language: convertLanguage,
		Speed:    convertSpeed,
		Style:    convertStyle,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Audio saved to %s\n", out)
	return nil
}
