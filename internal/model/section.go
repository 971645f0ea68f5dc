package model

import "fmt"

// Side selects the tension face an arrangement serves.
type Side int

const (
	Top Side = iota
	Bottom
)

// String returns the short form used in reinforcement keys.
func (s Side) String() string {
	if s == Top {
		return "Top"
	}
	return "Bot"
}

// Sides lists both faces in key order.
var Sides = []Side{Top, Bottom}

// SectionType classifies a design section's longitudinal position.
type SectionType int

const (
	Support SectionType = iota
	MidSpan
	QuarterSpan
	FreeEnd
)

// String returns the display name of the section type.
func (t SectionType) String() string {
	switch t {
	case Support:
		return "Support"
	case MidSpan:
		return "MidSpan"
	case QuarterSpan:
		return "QuarterSpan"
	default:
		return "FreeEnd"
	}
}

// Zone names a longitudinal position within one span.
type Zone string

const (
	ZoneLeft  Zone = "Left"
	ZoneMid   Zone = "Mid"
	ZoneRight Zone = "Right"
)

// DesignSection is one discretized analysis point of one span. The
// Discretizer creates it, the SectionSolver fills the option lists,
// the TopologyMerger prunes them, and the GlobalOptimizer reads them.
type DesignSection struct {
	ID        string // e.g. "S2_Mid"
	SpanIndex int    // 0-based
	ZoneIndex int    // 0-based within the span
	Zone      Zone
	Position  float64 // mm from beam start

	// Net placement envelope (mm), inside cover and stirrup
	UsableWidth  float64
	UsableHeight float64

	// Safety-factored steel demand (mm²)
	RequiredTop    float64
	RequiredBottom float64

	// Shear demand as stirrup area per unit length (mm²/m)
	StirrupRate float64

	Type           SectionType
	IsLeftSupport  bool // left end of its span
	IsRightSupport bool // right end of its span

	TopOptions    []SectionArrangement
	BottomOptions []SectionArrangement
}

// Required returns the safety-factored demand (mm²) for a face.
func (s *DesignSection) Required(side Side) float64 {
	if side == Top {
		return s.RequiredTop
	}
	return s.RequiredBottom
}

// Options returns the current candidate arrangements for a face.
func (s *DesignSection) Options(side Side) []SectionArrangement {
	if side == Top {
		return s.TopOptions
	}
	return s.BottomOptions
}

// SetOptions replaces the candidate arrangements for a face.
func (s *DesignSection) SetOptions(side Side, opts []SectionArrangement) {
	if side == Top {
		s.TopOptions = opts
		return
	}
	s.BottomOptions = opts
}

// Key builds the reinforcement map key for a face of this section,
// e.g. "S2_Top_Mid".
func (s *DesignSection) Key(side Side) string {
	return fmt.Sprintf("S%d_%s_%s", s.SpanIndex+1, side, s.Zone)
}
