package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gorebar/internal/version"
)

var (
	rootVerbose bool
	rootQuiet   bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "gorebar",
	Short: "Continuous Beam Reinforcement Layout Optimizer",
	Long: `gorebar - Continuous Beam Reinforcement Layout Optimizer

A CLI tool that converts steel area envelopes from structural analysis
into buildable rebar layouts for continuous reinforced concrete beams.

The pipeline works in four stages:
  - Discretize each span into design zones and scan the demand envelope
  - Enumerate feasible bar arrangements per zone
  - Reconcile arrangements across shared supports
  - Pick beam-wide running steel and zone addons, ranked by score`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		switch {
		case rootQuiet:
			log.SetLevel(logrus.ErrorLevel)
		case rootVerbose:
			log.SetLevel(logrus.DebugLevel)
		default:
			log.SetLevel(logrus.WarnLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gorebar v%-47s║\n", version.Version)
		fmt.Println("  ║   Continuous Beam Reinforcement Layout Optimizer          ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Turns steel area envelopes into buildable rebar layouts for")
		fmt.Println("  continuous reinforced concrete beams.")
		fmt.Println()
		fmt.Println("  Commands:")
		fmt.Println("    • beam solve    - design one beam from a job file")
		fmt.Println("    • beam batch    - design every job file in a directory")
		fmt.Println("    • beam report   - render reports from a batch snapshot")
		fmt.Println("    • beam diagram  - plot the steel area envelope")
		fmt.Println()
		fmt.Println("  Use 'gorebar --help' to see available commands.")
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Log errors only")
}
