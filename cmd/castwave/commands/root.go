package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "castwave",
	Short: "Multi-speaker dialogue audio generation",
	Long: `castwave turns a dialogue script into one merged conversation WAV.

A script defines voice references and speaker lines:

  voice1_wav="voices/anna.wav"
  voice2_wav="voices/ben.wav"

  voice1="Hello, how are you?"
  voice2='Fine, thanks. And you?'

Each line is synthesized through a voice-cloning TTS backend, cleaned up
by a signal-processing chain, and the lines are joined with a configurable
silence gap.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
