package diagram

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/alexiusacademia/gorebar/internal/model"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// FormatVerdict renders the one-line result headline for a solution.
// Color degrades to plain text on non-TTY output.
func FormatVerdict(sol *model.ContinuousBeamSolution) string {
	switch {
	case !sol.IsValid:
		return failColor.Sprint("INFEASIBLE") + fmt.Sprintf("  %s", sol.Message)
	case sol.Message != "":
		return warnColor.Sprint("OK (relaxed)") + fmt.Sprintf("  %s  %.1f kg  score %.1f  [%s]",
			sol.BackboneLabel(), sol.TotalWeight, sol.TotalScore, sol.Message)
	default:
		return okColor.Sprint("OK") + fmt.Sprintf("  %s  %.1f kg  score %.1f",
			sol.BackboneLabel(), sol.TotalWeight, sol.TotalScore)
	}
}
