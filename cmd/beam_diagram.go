package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gorebar/internal/detailing"
	"github.com/alexiusacademia/gorebar/internal/diagram"
)

var (
	diagramSettingsFile string
	diagramOutputFile   string
	diagramASCIIOnly    bool
)

var beamDiagramCmd = &cobra.Command{
	Use:   "diagram <job.toml>",
	Short: "Plot the steel area envelope for a beam",
	Long: `Solve a beam and plot its required vs provided steel area along
the length, or print the ASCII elevation only.

Examples:
  # Export the envelope plot
  gorebar beam diagram girder-b1.toml -o girder-b1.png

  # Terminal elevation sketch only
  gorebar beam diagram girder-b1.toml --ascii`,
	Args: cobra.ExactArgs(1),
	RunE: runBeamDiagram,
}

func init() {
	beamCmd.AddCommand(beamDiagramCmd)

	beamDiagramCmd.Flags().StringVarP(&diagramSettingsFile, "settings", "s", "", "Detailing settings TOML file")
	beamDiagramCmd.Flags().StringVarP(&diagramOutputFile, "output", "o", "", "Plot file (png, svg, pdf)")
	beamDiagramCmd.Flags().BoolVar(&diagramASCIIOnly, "ascii", false, "Print the ASCII elevation instead of plotting")
}

func runBeamDiagram(cmd *cobra.Command, args []string) error {
	job, cfg, err := loadJobWithSettings(args[0], diagramSettingsFile)
	if err != nil {
		return err
	}

	solutions := detailing.NewCalculator(cfg, log).Run(job.Beam, job.Constraints)
	best := solutions[0]
	if !best.IsValid {
		return fmt.Errorf("no feasible design for beam %s: %s", best.BeamName, best.Message)
	}

	if diagramASCIIOnly {
		fmt.Println(diagram.DrawElevation(job.Beam, best))
		return nil
	}
	if diagramOutputFile == "" {
		return fmt.Errorf("either --output or --ascii is required")
	}

	data := diagram.EnvelopeData{
		Input:          job.Beam,
		Solution:       best,
		LeftZoneRatio:  cfg.LeftZoneRatio,
		RightZoneRatio: cfg.RightZoneRatio,
		SafetyFactor:   cfg.SafetyFactor,
	}
	if err := diagram.ExportEnvelopeDiagram(data, diagramOutputFile); err != nil {
		return fmt.Errorf("export plot: %w", err)
	}
	fmt.Printf("Envelope plot exported to: %s\n", diagramOutputFile)
	return nil
}
