package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/voice"
)

var voicesDir string

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List reference voice recordings",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := voicesDir
		if dir == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir = cfg.Paths.VoicesDir
		}

		lib := voice.NewLibrary(dir)
		voices, err := lib.List()
		if err != nil {
			return err
		}
		if len(voices) == 0 {
			fmt.Printf("No reference WAVs found in %s\n", dir)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDURATION\tRATE\tPATH")
		for _, v := range voices {
			fmt.Fprintf(w, "%s\t%.1fs\t%d\t%s\n", v.Name, v.Duration, v.SampleRate, v.Path)
		}
		return w.Flush()
	},
}

func init() {
	voicesCmd.Flags().StringVar(&voicesDir, "dir", "", "voices directory (overrides VOICES_DIR)")
}
