package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/gorebar/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gorebar",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gorebar v%s\n", version.Version)
		fmt.Println("Continuous Beam Reinforcement Layout Optimizer")
		if version.GitCommit != "unknown" {
			fmt.Printf("commit: %s\n", version.GitCommit)
		}
		if version.BuildTime != "unknown" {
			fmt.Printf("built:  %s\n", version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
