package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/units"
)

func sampleSolution() (*model.BeamInput, *model.ContinuousBeamSolution) {
	in := &model.BeamInput{
		Name: "GB-1",
		Spans: []model.BeamGeometry{{
			Length: 6, Width: 0.3, Height: 0.5, Unit: units.Meters,
			LeftSupport: model.SupportColumn, RightSupport: model.SupportColumn,
		}},
	}
	entries := []model.Reinforcement{
		{Key: "S1_Top_Left", SpanIndex: 0, Side: model.Top, Zone: model.ZoneLeft,
			Diameter: 20, Count: 2, RequiredArea: 450, ProvidedArea: 628.3},
		{Key: "S1_Bot_Mid", SpanIndex: 0, Side: model.Bottom, Zone: model.ZoneMid,
			Diameter: 20, Count: 2, AddonDiameter: 16, AddonCount: 2, AddonLayers: 1,
			RequiredArea: 900, ProvidedArea: 1030.4, Source: model.LookupMatch},
	}
	sol := &model.ContinuousBeamSolution{
		BeamName:            "GB-1",
		BackboneDiameter:    20,
		BackboneTopCount:    2,
		BackboneBottomCount: 2,
		Spans: []model.SpanRebarResult{{
			SpanIndex: 0, StirrupLabel: "φ10@150", Entries: entries,
		}},
		Reinforcements: map[string]model.Reinforcement{
			entries[0].Key: entries[0],
			entries[1].Key: entries[1],
		},
		TotalWeight:           148.2,
		SpliceCount:           0,
		WastePercent:          12.4,
		EfficiencyScore:       87.6,
		ConstructabilityScore: 81.0,
		TotalScore:            84.9,
		IsValid:               true,
	}
	return in, sol
}

func TestWriteText(t *testing.T) {
	in, sol := sampleSolution()
	var buf bytes.Buffer
	WriteText(&buf, in, sol)

	out := buf.String()
	assert.Contains(t, out, "CONTINUOUS BEAM REINFORCEMENT LAYOUT")
	assert.Contains(t, out, "φ20 T2/B2")
	assert.Contains(t, out, "2-φ20 +2-φ16")
	assert.Contains(t, out, "φ10@150")
	assert.Contains(t, out, "148.2 kg")
	assert.NotContains(t, out, "NO FEASIBLE DESIGN")
}

func TestWriteTextInvalid(t *testing.T) {
	in, _ := sampleSolution()
	sol := model.InvalidSolution("GB-1", "LocallySolved: section S1_Mid cannot fit demand")

	var buf bytes.Buffer
	WriteText(&buf, in, sol)
	out := buf.String()
	assert.Contains(t, out, "NO FEASIBLE DESIGN")
	assert.Contains(t, out, "S1_Mid")
	assert.NotContains(t, out, "ZONE SCHEDULE")
}

func TestWriteRanking(t *testing.T) {
	_, sol := sampleSolution()
	var buf bytes.Buffer
	WriteRanking(&buf, []*model.ContinuousBeamSolution{sol, sol})
	out := buf.String()
	assert.Contains(t, out, "ALTERNATIVES:")
	assert.Contains(t, out, "φ20 T2/B2")
}

func TestWritePDF(t *testing.T) {
	in, sol := sampleSolution()
	path := filepath.Join(t.TempDir(), "gb1.pdf")
	require.NoError(t, WritePDF(path, in, sol))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestWritePDFInvalid(t *testing.T) {
	in, _ := sampleSolution()
	sol := model.InvalidSolution("GB-1", "Validating: no span geometry and no force data")
	path := filepath.Join(t.TempDir(), "bad.pdf")
	require.NoError(t, WritePDF(path, in, sol))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestWriteExcel(t *testing.T) {
	_, sol := sampleSolution()
	path := filepath.Join(t.TempDir(), "gb1.xlsx")
	require.NoError(t, WriteExcel(path, []*model.ContinuousBeamSolution{sol}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Schedule")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 entries
	assert.Equal(t, "Beam", rows[0][0])
	assert.Equal(t, "GB-1", rows[1][0])

	sum, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, sum, 2)
	assert.Contains(t, sum[1], "OK")
}
