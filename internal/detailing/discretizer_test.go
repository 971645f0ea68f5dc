package detailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/units"
)

func TestDiscretizeThreeZonesPerSpan(t *testing.T) {
	cfg := testConfig(t, nil)
	in := singleSpanBeam(450, 300)

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	require.Len(t, sections, 3)

	assert.Equal(t, "S1_Left", sections[0].ID)
	assert.Equal(t, "S1_Mid", sections[1].ID)
	assert.Equal(t, "S1_Right", sections[2].ID)

	assert.Equal(t, 0.0, sections[0].Position)
	assert.Equal(t, 3000.0, sections[1].Position)
	assert.Equal(t, 6000.0, sections[2].Position)

	assert.True(t, sections[0].IsLeftSupport)
	assert.True(t, sections[2].IsRightSupport)
	assert.Equal(t, model.MidSpan, sections[1].Type)

	// width 300 net of 2x(40 side cover + 10 stirrup)
	assert.InDelta(t, 200, sections[0].UsableWidth, 0.01)
	// height 500 net of 40+40 cover and 2x10 stirrup
	assert.InDelta(t, 400, sections[0].UsableHeight, 0.01)
}

func TestDiscretizeAppliesSafetyFactor(t *testing.T) {
	cfg := testConfig(t, nil) // safety factor 1.05
	in := singleSpanBeam(450, 300)

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	assert.InDelta(t, 472.5, sections[1].RequiredTop, 0.01)
	assert.InDelta(t, 315.0, sections[1].RequiredBottom, 0.01)
}

func TestDiscretizeBandedScan(t *testing.T) {
	cfg := testConfig(t, nil) // band ratios 0.25/0.25
	g, _ := span(6, 0, 0)
	f := model.SpanForceResult{
		// peak at the left support, valley at mid, medium at right
		TopArea:    []float64{800, 500, 100, 150, 400},
		BottomArea: []float64{0, 200, 600, 200, 0},
	}
	in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)

	sf := cfg.SafetyFactor
	// left band covers the first quarter of stations
	assert.InDelta(t, 800*sf, sections[0].RequiredTop, 0.01)
	// middle band takes the interior maximum
	assert.InDelta(t, 500*sf, sections[1].RequiredTop, 0.01)
	assert.InDelta(t, 600*sf, sections[1].RequiredBottom, 0.01)
	// right band covers the last quarter
	assert.InDelta(t, 400*sf, sections[2].RequiredTop, 0.01)
}

func TestDiscretizeTorsionRedistribution(t *testing.T) {
	cfg := testConfig(t, nil) // torsion ratios 0.25 top and bottom
	g, f := span(6, 400, 400)
	f.TorsionArea = []float64{200, 200, 200, 200, 200}
	in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	want := (400 + 200*0.25) * cfg.SafetyFactor
	assert.InDelta(t, want, sections[1].RequiredTop, 0.01)
	assert.InDelta(t, want, sections[1].RequiredBottom, 0.01)
}

func TestDiscretizeFreeEndRetyping(t *testing.T) {
	cfg := testConfig(t, nil)
	g, f := span(6, 450, 300)
	g.LeftSupport = model.SupportNone
	in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	assert.Equal(t, model.FreeEnd, sections[0].Type)
	assert.Equal(t, model.Support, sections[2].Type)
}

func TestDiscretizeMixedUnits(t *testing.T) {
	cfg := testConfig(t, nil)
	// untagged: 6 -> m, 30 -> cm, 500 -> mm
	g := model.BeamGeometry{
		Length: 6, Width: 30, Height: 500, Unit: units.Unknown,
		LeftSupport: model.SupportColumn, RightSupport: model.SupportColumn,
	}
	f := model.SpanForceResult{TopArea: []float64{450}, BottomArea: []float64{300}}
	in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	assert.InDelta(t, 200, sections[0].UsableWidth, 0.01)
	assert.Equal(t, 6000.0, sections[2].Position)
}

func TestDiscretizeRejectsEmptyBeam(t *testing.T) {
	cfg := testConfig(t, nil)
	_, err := NewDiscretizer(cfg).Discretize(&model.BeamInput{Name: "B1"})
	assert.Error(t, err)

	// geometry without any demand is equally unusable
	g, _ := span(6, 0, 0)
	in := beam("B1", []model.BeamGeometry{g}, nil)
	_, err = NewDiscretizer(cfg).Discretize(in)
	assert.Error(t, err)
}

func TestDiscretizeMultiSpanPositions(t *testing.T) {
	cfg := testConfig(t, nil)
	g1, f1 := span(6, 450, 300)
	g2, f2 := span(4, 450, 300)
	in := beam("B1", []model.BeamGeometry{g1, g2}, []model.SpanForceResult{f1, f2})

	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	require.Len(t, sections, 6)

	// span 1 right end and span 2 left start share the support position
	assert.Equal(t, 6000.0, sections[2].Position)
	assert.Equal(t, 6000.0, sections[3].Position)
	assert.Equal(t, 10000.0, sections[5].Position)
}
