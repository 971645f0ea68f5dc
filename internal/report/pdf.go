package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/alexiusacademia/gorebar/internal/model"
)

// WritePDF renders the design report to an A4 PDF file.
func WritePDF(path string, in *model.BeamInput, sol *model.ContinuousBeamSolution) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; phi becomes the diameter sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	bar := func(s string) string { return tr(strings.ReplaceAll(s, "φ", "Ø")) }
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Continuous Beam Reinforcement Layout")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Beam: %s", sol.BeamName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	if !sol.IsValid {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "NO FEASIBLE DESIGN")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, sol.Message, "", "L", false)
		return pdf.OutputFileAndClose(path)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Geometry")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for i, g := range in.Spans {
		pdf.Cell(0, 5, fmt.Sprintf("Span %d: %.0f x %.0f mm, L = %.2f m (%s/%s)",
			i+1, g.WidthMM(), g.HeightMM(), g.LengthMM()/1000,
			g.LeftSupport, g.RightSupport))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, bar(fmt.Sprintf("Running steel: %s", sol.BackboneLabel())))
	pdf.Ln(10)

	// Zone schedule table
	header := []string{"Span", "Zone", "Top", "Bottom", "Stirrups"}
	widths := []float64{18, 22, 50, 50, 30}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, span := range sol.Spans {
		for _, zone := range zoneOrder {
			top, bot := zoneLabels(span, zone)
			if top == "" && bot == "" {
				continue
			}
			row := []string{
				fmt.Sprintf("%d", span.SpanIndex+1),
				string(zone),
				bar(top),
				bar(bot),
				bar(span.StirrupLabel),
			}
			for i, cell := range row {
				pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Quantities")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Total steel weight: %.1f kg", sol.TotalWeight),
		fmt.Sprintf("Splices: %d", sol.SpliceCount),
		fmt.Sprintf("Waste: %.1f %%", sol.WastePercent),
		fmt.Sprintf("Total score: %.1f / 100", sol.TotalScore),
	}
	for _, line := range lines {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}

	return pdf.OutputFileAndClose(path)
}
