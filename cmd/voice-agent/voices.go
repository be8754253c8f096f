package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var voicesLanguage string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices the configured engine offers",
	Long: `Voices queries the synthesis engine for its available voices.

Examples:
  voice-agent voices
  voice-agent voices --lang ja-JP
  voice-agent --engine gemini voices`,
	RunE: runVoices,
}

func init() {
	voicesCmd.Flags().StringVar(&voicesLanguage, "lang", "", "Filter by language code, e.g. ja-JP")
}

func runVoices(cmd *cobra.Command, args []string) error {
	a, _, _, err := newAgent()
	if err != nil {
		return err
	}

	voices, err := a.ListVoices(cmd.Context(), voicesLanguage)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLANGUAGES\tGENDER\tSAMPLE RATE")
	for _, v := range voices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			v.Name,
			strings.Join(v.LanguageCodes, ","),
			v.SSMLGender,
			v.NaturalSampleRateHertz,
		)
	}
	return w.Flush()
}
