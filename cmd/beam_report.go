package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gorebar/internal/batch"
	"github.com/alexiusacademia/gorebar/internal/detailing"
	"github.com/alexiusacademia/gorebar/internal/report"
)

var (
	reportSettingsFile string
	reportOutputFile   string
)

var beamReportCmd = &cobra.Command{
	Use:   "report <job.toml | run.snapshot>",
	Short: "Render a design report",
	Long: `Render a design report. Given a job file the beam is solved and
reported directly; given a batch snapshot the stored results are
summarized without re-solving.

Examples:
  # Solve and export a PDF report
  gorebar beam report girder-b1.toml -o girder-b1.pdf

  # Summarize an earlier batch run
  gorebar beam report run.snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runBeamReport,
}

func init() {
	beamCmd.AddCommand(beamReportCmd)

	beamReportCmd.Flags().StringVarP(&reportSettingsFile, "settings", "s", "", "Detailing settings TOML file")
	beamReportCmd.Flags().StringVarP(&reportOutputFile, "output", "o", "", "Export report file (pdf, xlsx, txt)")
}

func runBeamReport(cmd *cobra.Command, args []string) error {
	// Snapshot first: cheap to probe, absent means job file.
	snap, ok, err := batch.ReadSnapshot(args[0])
	if err == nil && ok {
		printSnapshot(snap)
		return nil
	}

	job, cfg, err := loadJobWithSettings(args[0], reportSettingsFile)
	if err != nil {
		return err
	}
	solutions := detailing.NewCalculator(cfg, log).Run(job.Beam, job.Constraints)
	report.WriteText(os.Stdout, job.Beam, solutions[0])
	if reportOutputFile != "" {
		if err := exportReport(reportOutputFile, job.Beam, solutions); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		fmt.Printf("  Report exported to: %s\n", reportOutputFile)
	}
	if !solutions[0].IsValid {
		return fmt.Errorf("no feasible design for beam %s", solutions[0].BeamName)
	}
	return nil
}

func printSnapshot(snap *batch.Snapshot) {
	fmt.Println()
	fmt.Printf("  Batch run of %s\n", snap.CreatedAt.Format("2006-01-02 15:04 MST"))
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Beam\tBackbone\tWeight\tSplices\tWaste\tScore\tStatus\n")
	fmt.Fprintf(w, "  ────\t────────\t──────\t───────\t─────\t─────\t──────\n")
	for _, b := range snap.Beams {
		if !b.Valid {
			fmt.Fprintf(w, "  %s\t-\t-\t-\t-\t-\t%s\n", b.BeamName, b.Message)
			continue
		}
		fmt.Fprintf(w, "  %s\tφ%d T%d/B%d\t%.1f kg\t%d\t%.1f %%\t%.1f\tOK\n",
			b.BeamName, b.BackboneDiameter, b.BackboneTopCount, b.BackboneBottomCount,
			b.TotalWeight, b.SpliceCount, b.WastePercent, b.TotalScore)
	}
	w.Flush()
	fmt.Println()
}
