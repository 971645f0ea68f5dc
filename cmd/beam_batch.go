package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gorebar/internal/batch"
	"github.com/alexiusacademia/gorebar/internal/config"
)

var (
	batchSettingsFile string
	batchJobs         int
	batchSnapshotFile string
)

var beamBatchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Design every beam job file in a directory",
	Long: `Design every *.toml job file under a directory in parallel and
print a one-line summary per beam.

A job file that fails to parse or solve marks only its own beam as
failed; the rest of the batch continues.

Examples:
  # Design all beams with one worker per CPU
  gorebar beam batch ./jobs

  # Limit to 4 workers and keep a snapshot for later reporting
  gorebar beam batch ./jobs --jobs 4 --snapshot run.snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runBeamBatch,
}

func init() {
	beamCmd.AddCommand(beamBatchCmd)

	beamBatchCmd.Flags().StringVarP(&batchSettingsFile, "settings", "s", "", "Detailing settings TOML file")
	beamBatchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "Parallel workers (0 = one per CPU)")
	beamBatchCmd.Flags().StringVar(&batchSnapshotFile, "snapshot", "", "Write a result snapshot to this file")
}

func runBeamBatch(cmd *cobra.Command, args []string) error {
	var base *config.Settings
	if batchSettingsFile != "" {
		s, err := config.LoadSettings(batchSettingsFile)
		if err != nil {
			return err
		}
		base = s
	}

	runner := batch.NewRunner(base, log, batchJobs)
	results, err := runner.RunDir(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Printf("no job files found under %s\n", args[0])
		return nil
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Beam\tBackbone\tWeight\tScore\tStatus\n")
	fmt.Fprintf(w, "  ────\t────────\t──────\t─────\t──────\n")
	failed := 0
	for _, res := range results {
		name := res.Path
		if res.Job != nil {
			name = res.Job.Beam.Name
		}
		switch {
		case res.Err != nil:
			failed++
			fmt.Fprintf(w, "  %s\t-\t-\t-\t%v\n", name, res.Err)
		case !res.Valid():
			failed++
			fmt.Fprintf(w, "  %s\t-\t-\t-\t%s\n", name, res.Solutions[0].Message)
		default:
			best := res.Solutions[0]
			fmt.Fprintf(w, "  %s\t%s\t%.1f kg\t%.1f\tOK\n",
				name, best.BackboneLabel(), best.TotalWeight, best.TotalScore)
		}
	}
	w.Flush()
	fmt.Println()
	fmt.Printf("  %d beams, %d failed\n", len(results), failed)
	fmt.Println()

	if batchSnapshotFile != "" {
		if err := batch.WriteSnapshot(batchSnapshotFile, batch.NewSnapshot(results)); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Printf("  Snapshot written to: %s\n", batchSnapshotFile)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d beams failed", failed, len(results))
	}
	return nil
}
