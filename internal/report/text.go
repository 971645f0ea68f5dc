// Package report renders finished beam designs as text, PDF and
// spreadsheet output.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alexiusacademia/gorebar/internal/model"
)

var zoneOrder = []model.Zone{model.ZoneLeft, model.ZoneMid, model.ZoneRight}

// WriteText renders the full design report for one beam.
func WriteText(w io.Writer, in *model.BeamInput, sol *model.ContinuousBeamSolution) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "     CONTINUOUS BEAM REINFORCEMENT LAYOUT")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	if !sol.IsValid {
		fmt.Fprintln(w, "  ╔═════════════════════════════════════════╗")
		fmt.Fprintln(w, "  ║  NO FEASIBLE DESIGN                     ║")
		fmt.Fprintln(w, "  ╚═════════════════════════════════════════╝")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", sol.Message)
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "INPUT DATA:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Beam:\t%s\n", sol.BeamName)
	fmt.Fprintf(tw, "  Spans:\t%d\n", len(in.Spans))
	for i, g := range in.Spans {
		fmt.Fprintf(tw, "  Span %d:\t%.0f x %.0f mm, L = %.2f m (%s/%s)\n",
			i+1, g.WidthMM(), g.HeightMM(), g.LengthMM()/1000,
			g.LeftSupport, g.RightSupport)
	}
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "RUNNING STEEL:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Backbone:\t%s\n", sol.BackboneLabel())
	fmt.Fprintf(tw, "  Top bars:\t%d - φ%dmm\n", sol.BackboneTopCount, sol.BackboneDiameter)
	fmt.Fprintf(tw, "  Bottom bars:\t%d - φ%dmm\n", sol.BackboneBottomCount, sol.BackboneDiameter)
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ZONE SCHEDULE:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Span\tZone\tTop\tBottom\tStirrups\n")
	fmt.Fprintf(tw, "  ────\t────\t───\t──────\t────────\n")
	for _, span := range sol.Spans {
		for _, zone := range zoneOrder {
			top, bot := zoneLabels(span, zone)
			if top == "" && bot == "" {
				continue
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\n",
				span.SpanIndex+1, zone, top, bot, span.StirrupLabel)
		}
	}
	tw.Flush()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "QUANTITIES:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Total steel weight:\t%.1f kg\n", sol.TotalWeight)
	fmt.Fprintf(tw, "  Splices:\t%d\n", sol.SpliceCount)
	fmt.Fprintf(tw, "  Waste:\t%.1f %%\n", sol.WastePercent)
	fmt.Fprintf(tw, "  Efficiency score:\t%.1f\n", sol.EfficiencyScore)
	fmt.Fprintf(tw, "  Constructability score:\t%.1f\n", sol.ConstructabilityScore)
	fmt.Fprintf(tw, "  Total score:\t%.1f\n", sol.TotalScore)
	tw.Flush()
	fmt.Fprintln(w)

	if sol.Message != "" {
		fmt.Fprintf(w, "  Note: %s\n", sol.Message)
		fmt.Fprintln(w)
	}
}

// WriteRanking renders the one-line-per-alternative comparison table.
func WriteRanking(w io.Writer, solutions []*model.ContinuousBeamSolution) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ALTERNATIVES:")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────────")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Rank\tBackbone\tWeight\tSplices\tWaste\tScore\n")
	fmt.Fprintf(tw, "  ────\t────────\t──────\t───────\t─────\t─────\n")
	for i, sol := range solutions {
		if !sol.IsValid {
			fmt.Fprintf(tw, "  %d\t%s\t-\t-\t-\t-\n", i+1, "infeasible")
			continue
		}
		fmt.Fprintf(tw, "  %d\t%s\t%.1f kg\t%d\t%.1f %%\t%.1f\n",
			i+1, sol.BackboneLabel(), sol.TotalWeight, sol.SpliceCount,
			sol.WastePercent, sol.TotalScore)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// zoneLabels picks the top and bottom entry labels for a zone.
func zoneLabels(span model.SpanRebarResult, zone model.Zone) (top, bot string) {
	for _, e := range span.Entries {
		if e.Zone != zone {
			continue
		}
		if e.Side == model.Top {
			top = e.Label()
		} else {
			bot = e.Label()
		}
	}
	return top, bot
}
