package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexiusacademia/gorebar/internal/units"
)

func TestBeamGeometryNormalization(t *testing.T) {
	// Tagged meters
	g := BeamGeometry{Length: 6, Width: 0.3, Height: 0.5, Unit: units.Meters}
	assert.Equal(t, 6000.0, g.LengthMM())
	assert.Equal(t, 300.0, g.WidthMM())
	assert.Equal(t, 500.0, g.HeightMM())

	// Untagged, mixed magnitudes: 6 -> meters, 30 -> cm, 500 -> mm
	g = BeamGeometry{Length: 6, Width: 30, Height: 500}
	assert.Equal(t, 6000.0, g.LengthMM())
	assert.Equal(t, 300.0, g.WidthMM())
	assert.Equal(t, 500.0, g.HeightMM())
}

func TestParseSupportType(t *testing.T) {
	for tag, want := range map[string]SupportType{
		"column": SupportColumn,
		"Wall":   SupportWall,
		"BEAM":   SupportBeam,
		"girder": SupportGirder,
		"none":   SupportNone,
		"":       SupportNone,
	} {
		got, err := ParseSupportType(tag)
		assert.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	_, err := ParseSupportType("colunm")
	assert.Error(t, err, "typos must not silently fall through")
}

func TestSectionKey(t *testing.T) {
	s := &DesignSection{SpanIndex: 1, Zone: ZoneMid}
	assert.Equal(t, "S2_Top_Mid", s.Key(Top))
	assert.Equal(t, "S2_Bot_Mid", s.Key(Bottom))
}

func TestArrangementCloneIsDeep(t *testing.T) {
	a := SectionArrangement{Diameter: 20, Count: 5, Layers: 2, BarsPerLayer: []int{3, 2}}
	c := a.Clone()
	c.BarsPerLayer[0] = 99
	assert.Equal(t, 3, a.BarsPerLayer[0], "clone must not alias layer breakdown")
}

func TestArrangementContains(t *testing.T) {
	a := SectionArrangement{Diameter: 20, Count: 5}
	assert.True(t, a.Contains(20, 3))
	assert.False(t, a.Contains(20, 5), "strict subset required")
	assert.False(t, a.Contains(16, 3))
	mixed := SectionArrangement{Diameter: 20, Count: 5, MixedDiameter: 16, MixedCount: 2}
	assert.False(t, mixed.Contains(20, 3), "mixed layouts are not backbone supersets")
}

func TestExternalConstraintsAllowsDiameter(t *testing.T) {
	var none ExternalConstraints
	assert.True(t, none.AllowsDiameter(20))

	forced := ExternalConstraints{ForcedDiameter: 25}
	assert.True(t, forced.AllowsDiameter(25))
	assert.False(t, forced.AllowsDiameter(20))

	subset := ExternalConstraints{AllowedDiameters: []int{16, 20}}
	assert.True(t, subset.AllowsDiameter(16))
	assert.False(t, subset.AllowsDiameter(25))
}

func TestArrangementLabel(t *testing.T) {
	a := SectionArrangement{Diameter: 20, Count: 4}
	assert.Equal(t, "4-φ20", a.Label())
	a.MixedDiameter, a.MixedCount = 16, 2
	assert.Equal(t, "4-φ20+2-φ16", a.Label())
	assert.Equal(t, "-", EmptyArrangement().Label())
}
