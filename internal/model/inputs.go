// Package model defines the data carried between the detailing
// pipeline stages: beam inputs, design sections, bar arrangements and
// whole-beam solutions.
package model

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/units"
)

// SupportType classifies the member a span end bears on.
type SupportType int

const (
	SupportNone SupportType = iota // free end, no support
	SupportColumn
	SupportWall
	SupportBeam
	SupportGirder
)

// String returns the display name of the support type.
func (s SupportType) String() string {
	switch s {
	case SupportColumn:
		return "Column"
	case SupportWall:
		return "Wall"
	case SupportBeam:
		return "Beam"
	case SupportGirder:
		return "Girder"
	default:
		return "None"
	}
}

// ParseSupportType maps an input tag to a SupportType. Unrecognized
// tags are an error rather than a silent default.
func ParseSupportType(s string) (SupportType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "free":
		return SupportNone, nil
	case "column":
		return SupportColumn, nil
	case "wall":
		return SupportWall, nil
	case "beam":
		return SupportBeam, nil
	case "girder":
		return SupportGirder, nil
	}
	return SupportNone, fmt.Errorf("unrecognized support type %q", s)
}

// BeamGeometry describes one span of a continuous beam. Dimensions
// carry an explicit unit tag; untagged values fall back to the
// magnitude heuristic in the units package.
type BeamGeometry struct {
	Length float64 // span length
	Width  float64 // cross-section width
	Height float64 // cross-section total depth
	Unit   units.Unit

	LeftSupport  SupportType
	RightSupport SupportType
}

// LengthMM returns the span length normalized to millimeters. Spans
// use the length-scaled heuristic when untagged.
func (g BeamGeometry) LengthMM() float64 { return units.LengthToMillimeters(g.Length, g.Unit) }

// WidthMM returns the section width normalized to millimeters.
func (g BeamGeometry) WidthMM() float64 { return units.ToMillimeters(g.Width, g.Unit) }

// HeightMM returns the section depth normalized to millimeters.
func (g BeamGeometry) HeightMM() float64 { return units.ToMillimeters(g.Height, g.Unit) }

// SpanForceResult carries the structural-analysis envelope for one
// span: steel area required (mm²) at evenly-spaced stations from the
// left end to the right end, plus torsion and shear demands.
type SpanForceResult struct {
	TopArea     []float64 // mm² at each station
	BottomArea  []float64 // mm² at each station
	TorsionArea []float64 // mm² at each station, may be empty
	ShearArea   []float64 // mm²/m at each station, may be empty
}

// Stations returns the number of envelope samples.
func (f SpanForceResult) Stations() int {
	n := len(f.TopArea)
	if len(f.BottomArea) > n {
		n = len(f.BottomArea)
	}
	return n
}

// BeamInput bundles the per-span collaborator data for one continuous
// beam. Spans and Forces are parallel slices.
type BeamInput struct {
	Name   string
	Spans  []BeamGeometry
	Forces []SpanForceResult
}

// ExternalConstraints carries caller overrides that lock parts of the
// design, e.g. to match a neighboring beam. Zero values mean "no
// constraint". Read-only for the whole pipeline.
type ExternalConstraints struct {
	ForcedDiameter    int
	ForcedTopCount    int
	ForcedBottomCount int
	PreferredDiameter int
	AllowedDiameters  []int
}

// AllowsDiameter reports whether the constraint set permits a
// diameter. An empty allowed list permits everything.
func (c ExternalConstraints) AllowsDiameter(dia int) bool {
	if c.ForcedDiameter != 0 {
		return dia == c.ForcedDiameter
	}
	if len(c.AllowedDiameters) == 0 {
		return true
	}
	for _, d := range c.AllowedDiameters {
		if d == dia {
			return true
		}
	}
	return false
}
