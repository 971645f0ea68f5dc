package cmd

import (
	"github.com/spf13/cobra"
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Continuous beam reinforcement design",
	Long: `Design reinforcement layouts for continuous concrete beams from
steel area envelopes.

Subcommands:
  solve    - design one beam from a TOML job file
  batch    - design every job file in a directory in parallel
  report   - render text, PDF or spreadsheet reports
  diagram  - plot the required vs provided steel envelope`,
}

func init() {
	rootCmd.AddCommand(beamCmd)
}
