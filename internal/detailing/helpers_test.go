package detailing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/units"
)

// testConfig resolves the defaults with optional tweaks applied.
func testConfig(t *testing.T, mutate func(*config.Settings)) *config.Resolved {
	t.Helper()
	s := &config.Settings{}
	if mutate != nil {
		mutate(s)
	}
	r, err := config.Resolve(s)
	require.NoError(t, err)
	return r
}

// span builds a 300x500mm span of the given length in meters with the
// given constant top/bottom steel demand (mm²).
func span(lengthM, top, bot float64) (model.BeamGeometry, model.SpanForceResult) {
	g := model.BeamGeometry{
		Length: lengthM, Width: 0.3, Height: 0.5, Unit: units.Meters,
		LeftSupport: model.SupportColumn, RightSupport: model.SupportColumn,
	}
	f := model.SpanForceResult{
		TopArea:    []float64{top, top, top, top, top},
		BottomArea: []float64{bot, bot, bot, bot, bot},
	}
	return g, f
}

// beam assembles a named beam from span/force pairs.
func beam(name string, spans []model.BeamGeometry, forces []model.SpanForceResult) *model.BeamInput {
	return &model.BeamInput{Name: name, Spans: spans, Forces: forces}
}

// singleSpanBeam is the canonical one-span test beam.
func singleSpanBeam(top, bot float64) *model.BeamInput {
	g, f := span(6, top, bot)
	return beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})
}

// testSection builds a standalone solved-ready section.
func testSection(id string, width, height, reqTop, reqBot float64) *model.DesignSection {
	return &model.DesignSection{
		ID:             id,
		Zone:           model.ZoneMid,
		Type:           model.MidSpan,
		UsableWidth:    width,
		UsableHeight:   height,
		RequiredTop:    reqTop,
		RequiredBottom: reqBot,
	}
}
