package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gorebar/internal/model"
)

// WriteExcel writes a bar schedule workbook: one Schedule sheet with a
// row per zone face and a Summary sheet with the quantity totals.
func WriteExcel(path string, sols []*model.ContinuousBeamSolution) error {
	f := excelize.NewFile()
	defer f.Close()

	const schedule = "Schedule"
	f.SetSheetName("Sheet1", schedule)

	header := []string{"Beam", "Span", "Zone", "Face", "Bars", "Addon", "Required (mm2)", "Provided (mm2)", "Stirrups"}
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(schedule, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, sol := range sols {
		if !sol.IsValid {
			continue
		}
		for _, span := range sol.Spans {
			for _, e := range span.Entries {
				addon := ""
				if e.HasAddon() {
					addon = fmt.Sprintf("%d-%d", e.AddonCount, e.AddonDiameter)
				}
				values := []any{
					sol.BeamName,
					span.SpanIndex + 1,
					string(e.Zone),
					e.Side.String(),
					fmt.Sprintf("%d-%d", e.Count, e.Diameter),
					addon,
					e.RequiredArea,
					e.ProvidedArea,
					span.StirrupLabel,
				}
				for i, v := range values {
					cell, err := excelize.CoordinatesToCellName(i+1, row)
					if err != nil {
						return err
					}
					if err := f.SetCellValue(schedule, cell, v); err != nil {
						return err
					}
				}
				row++
			}
		}
	}

	const summary = "Summary"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	sumHeader := []string{"Beam", "Backbone", "Weight (kg)", "Splices", "Waste (%)", "Score", "Status"}
	for i, h := range sumHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summary, cell, h); err != nil {
			return err
		}
	}
	for rowIdx, sol := range sols {
		status := "OK"
		if !sol.IsValid {
			status = sol.Message
		}
		values := []any{
			sol.BeamName,
			sol.BackboneLabel(),
			sol.TotalWeight,
			sol.SpliceCount,
			sol.WastePercent,
			sol.TotalScore,
			status,
		}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
