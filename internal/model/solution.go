package model

import "fmt"

// BackboneCandidate is one (diameter, topCount, botCount) triple under
// evaluation as the beam-wide running steel. Ephemeral: built and
// scored by the global search, discarded after ranking.
type BackboneCandidate struct {
	Diameter    int
	TopCount    int
	BottomCount int

	TopArea    float64 // mm²
	BottomArea float64 // mm²

	Valid          bool
	FailedSections []string // section-face keys that could not be covered

	TotalWeight float64 // kg
	Score       float64
}

// Count returns the backbone bar count for a face.
func (b BackboneCandidate) Count(side Side) int {
	if side == Top {
		return b.TopCount
	}
	return b.BottomCount
}

// Area returns the backbone provided area (mm²) for a face.
func (b BackboneCandidate) Area(side Side) float64 {
	if side == Top {
		return b.TopArea
	}
	return b.BottomArea
}

// Label renders the candidate for diagnostics, e.g. "φ20 T4/B3".
func (b BackboneCandidate) Label() string {
	return fmt.Sprintf("φ%d T%d/B%d", b.Diameter, b.TopCount, b.BottomCount)
}

// AddonSource records how an addon was derived.
type AddonSource int

const (
	// NativeMatch: the backbone alone covers the demand.
	NativeMatch AddonSource = iota
	// LookupMatch: addon taken from a solver-approved arrangement
	// containing the backbone.
	LookupMatch
	// Synthesized: addon derived directly from the area deficit.
	Synthesized
	// Forced: minimal-diameter multi-layer addon accepted regardless
	// of score.
	Forced
	// Uncovered: no addon could cover the face; the entry carries the
	// bare backbone for diagnostics only.
	Uncovered
)

// String returns the display name of the addon source.
func (s AddonSource) String() string {
	switch s {
	case NativeMatch:
		return "native"
	case LookupMatch:
		return "lookup"
	case Synthesized:
		return "synthesized"
	case Forced:
		return "forced"
	default:
		return "uncovered"
	}
}

// Reinforcement is one face of one zone in the final layout: the
// backbone share plus any addon.
type Reinforcement struct {
	Key       string // "{spanId}_{Top|Bot}_{zone}"
	SpanIndex int
	Side      Side
	Zone      Zone

	Diameter int // backbone diameter
	Count    int // backbone count

	AddonDiameter int
	AddonCount    int
	AddonLayers   int

	RequiredArea float64 // mm²
	ProvidedArea float64 // mm², backbone + addon

	Source AddonSource
}

// HasAddon reports whether the zone carries bars beyond the backbone.
func (r Reinforcement) HasAddon() bool { return r.AddonCount > 0 }

// Label renders the face, e.g. "4-φ20" or "4-φ20 +2-φ16".
func (r Reinforcement) Label() string {
	s := fmt.Sprintf("%d-φ%d", r.Count, r.Diameter)
	if r.HasAddon() {
		s += fmt.Sprintf(" +%d-φ%d", r.AddonCount, r.AddonDiameter)
	}
	return s
}

// SpanRebarResult is the per-span slice of a solution.
type SpanRebarResult struct {
	SpanIndex    int
	StirrupLabel string // e.g. "φ10@150"
	Entries      []Reinforcement
}

// ContinuousBeamSolution is one complete, ranked design for a
// continuous beam.
type ContinuousBeamSolution struct {
	ID       string // assigned per run
	BeamName string

	BackboneDiameter    int
	BackboneTopCount    int
	BackboneBottomCount int

	Spans          []SpanRebarResult
	Reinforcements map[string]Reinforcement

	TotalWeight  float64 // kg
	SpliceCount  int
	WastePercent float64

	EfficiencyScore       float64
	ConstructabilityScore float64
	TotalScore            float64

	IsValid bool
	Message string // diagnostic when invalid
}

// BackboneLabel renders the running steel, e.g. "φ20 T4/B3".
func (s *ContinuousBeamSolution) BackboneLabel() string {
	return fmt.Sprintf("φ%d T%d/B%d", s.BackboneDiameter, s.BackboneTopCount, s.BackboneBottomCount)
}

// InvalidSolution builds the single diagnostic result returned when
// the pipeline cannot produce a feasible design.
func InvalidSolution(beamName, format string, args ...any) *ContinuousBeamSolution {
	return &ContinuousBeamSolution{
		BeamName: beamName,
		IsValid:  false,
		Message:  fmt.Sprintf(format, args...),
	}
}
