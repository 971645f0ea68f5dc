package model

import "fmt"

// SectionArrangement is one candidate bar layout for one face of one
// section. Treat as immutable once built; Clone before storing it on
// another section so merged sections can diverge later.
type SectionArrangement struct {
	// Primary diameter (mm); the cross-section matching signature.
	Diameter int
	Count    int

	// Secondary bars of a mixed two-diameter layout; zero when the
	// layout uses a single diameter.
	MixedDiameter int
	MixedCount    int

	ProvidedArea float64 // mm²
	RequiredArea float64 // mm², safety-factored demand it was solved for

	Layers       int
	BarsPerLayer []int   // outermost layer first, pyramidal
	ClearSpacing float64 // mm, in the widest (outermost) layer

	// Provided / required. Always >= 1 - tolerance.
	Efficiency float64

	// Bars beyond the minimum the demand needs.
	WasteBars int

	// Heuristic quality in [0,100].
	Score float64
}

// EmptyArrangement is the degenerate layout for a face with negligible
// demand.
func EmptyArrangement() SectionArrangement {
	return SectionArrangement{Efficiency: 1, Score: 100}
}

// IsEmpty reports whether the arrangement places no bars.
func (a SectionArrangement) IsEmpty() bool { return a.Count == 0 }

// IsMixed reports whether the arrangement uses two diameters.
func (a SectionArrangement) IsMixed() bool { return a.MixedCount > 0 }

// TotalBars returns the bar count across both diameters.
func (a SectionArrangement) TotalBars() int { return a.Count + a.MixedCount }

// Key is the (diameter, count) signature used for cross-section
// matching at shared supports.
func (a SectionArrangement) Key() string {
	return fmt.Sprintf("%dd%d", a.Count, a.Diameter)
}

// Label renders the arrangement the way it appears on a drawing,
// e.g. "4-φ20" or "4-φ20+2-φ16".
func (a SectionArrangement) Label() string {
	if a.IsEmpty() {
		return "-"
	}
	s := fmt.Sprintf("%d-φ%d", a.Count, a.Diameter)
	if a.IsMixed() {
		s += fmt.Sprintf("+%d-φ%d", a.MixedCount, a.MixedDiameter)
	}
	return s
}

// Clone returns a deep copy safe to mutate or re-home on another
// section.
func (a SectionArrangement) Clone() SectionArrangement {
	out := a
	out.BarsPerLayer = append([]int(nil), a.BarsPerLayer...)
	return out
}

// CloneAll deep-copies a whole option list.
func CloneAll(list []SectionArrangement) []SectionArrangement {
	out := make([]SectionArrangement, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

// Contains reports whether this arrangement includes the given
// backbone as a strict subset on its primary diameter: same diameter,
// strictly more bars.
func (a SectionArrangement) Contains(diameter, count int) bool {
	return a.Diameter == diameter && a.Count > count && !a.IsMixed()
}
