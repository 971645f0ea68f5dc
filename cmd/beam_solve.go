package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/detailing"
	"github.com/alexiusacademia/gorebar/internal/diagram"
	"github.com/alexiusacademia/gorebar/internal/input"
	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/report"
)

var (
	solveSettingsFile string
	solveShowAll      bool
	solveShowDiagram  bool
	solveOutputFile   string
	solvePlotFile     string
)

var beamSolveCmd = &cobra.Command{
	Use:   "solve <job.toml>",
	Short: "Design reinforcement for one continuous beam",
	Long: `Design the reinforcement layout for one continuous beam described
by a TOML job file.

The job file declares the span geometry, the steel area envelope from
structural analysis and optional [settings] and [constraints] tables.
Settings in the job file replace the --settings file for that beam.

Examples:
  # Solve a beam and print the best layout
  gorebar beam solve girder-b1.toml

  # Show all ranked alternatives with the elevation sketch
  gorebar beam solve girder-b1.toml --all --diagram

  # Export a PDF report and an envelope plot
  gorebar beam solve girder-b1.toml -o girder-b1.pdf --plot girder-b1.png`,
	Args: cobra.ExactArgs(1),
	RunE: runBeamSolve,
}

func init() {
	beamCmd.AddCommand(beamSolveCmd)

	beamSolveCmd.Flags().StringVarP(&solveSettingsFile, "settings", "s", "", "Detailing settings TOML file")
	beamSolveCmd.Flags().BoolVar(&solveShowAll, "all", false, "Show all ranked alternatives")
	beamSolveCmd.Flags().BoolVar(&solveShowDiagram, "diagram", false, "Show ASCII beam elevation")
	beamSolveCmd.Flags().StringVarP(&solveOutputFile, "output", "o", "", "Export report file (pdf, xlsx, txt)")
	beamSolveCmd.Flags().StringVar(&solvePlotFile, "plot", "", "Export envelope plot (png, svg, pdf)")
}

func runBeamSolve(cmd *cobra.Command, args []string) error {
	job, cfg, err := loadJobWithSettings(args[0], solveSettingsFile)
	if err != nil {
		return err
	}

	calc := detailing.NewCalculator(cfg, log)
	solutions := calc.Run(job.Beam, job.Constraints)
	best := solutions[0]

	fmt.Println()
	fmt.Printf("  %s\n", diagram.FormatVerdict(best))
	fmt.Println()

	report.WriteText(os.Stdout, job.Beam, best)
	if solveShowAll && best.IsValid {
		report.WriteRanking(os.Stdout, solutions)
	}
	if solveShowDiagram {
		fmt.Println(diagram.DrawElevation(job.Beam, best))
	}

	if solveOutputFile != "" {
		if err := exportReport(solveOutputFile, job.Beam, solutions); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		fmt.Printf("  Report exported to: %s\n", solveOutputFile)
	}
	if solvePlotFile != "" {
		data := diagram.EnvelopeData{
			Input:          job.Beam,
			Solution:       best,
			LeftZoneRatio:  cfg.LeftZoneRatio,
			RightZoneRatio: cfg.RightZoneRatio,
			SafetyFactor:   cfg.SafetyFactor,
		}
		if err := diagram.ExportEnvelopeDiagram(data, solvePlotFile); err != nil {
			return fmt.Errorf("export plot: %w", err)
		}
		fmt.Printf("  Envelope plot exported to: %s\n", solvePlotFile)
	}

	if !best.IsValid {
		return fmt.Errorf("no feasible design for beam %s", best.BeamName)
	}
	return nil
}

// loadJobWithSettings loads a job file and resolves its effective
// configuration: the job's own [settings] table wins over --settings.
func loadJobWithSettings(path, settingsFile string) (*input.Job, *config.Resolved, error) {
	job, err := input.LoadJob(path)
	if err != nil {
		return nil, nil, err
	}

	settings := job.Settings
	if settings == nil && settingsFile != "" {
		settings, err = config.LoadSettings(settingsFile)
		if err != nil {
			return nil, nil, err
		}
	}
	if settings == nil {
		settings = &config.Settings{}
	}
	cfg, err := config.Resolve(settings)
	if err != nil {
		return nil, nil, err
	}
	return job, cfg, nil
}

// exportReport picks the report writer from the file extension.
func exportReport(path string, in *model.BeamInput, sols []*model.ContinuousBeamSolution) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return report.WritePDF(path, in, sols[0])
	case ".xlsx":
		return report.WriteExcel(path, sols)
	case ".txt", "":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		report.WriteText(f, in, sols[0])
		report.WriteRanking(f, sols)
		return nil
	default:
		return fmt.Errorf("unsupported report format %q (want pdf, xlsx or txt)", filepath.Ext(path))
	}
}
