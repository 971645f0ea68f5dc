// Package rebar holds the deformed-bar inventory and the code-level
// detailing rules (NSCP 2015 / ACI 318) shared by every pipeline stage.
package rebar

import "math"

const (
	// SteelDensity is the unit weight of reinforcing steel (kg/m³).
	SteelDensity = 7850.0

	// AggregateSpacingFactor scales the nominal maximum aggregate size
	// for the minimum clear spacing rule.
	// NSCP 2015 Section 425.2.1 (4/3 of aggregate size)
	AggregateSpacingFactor = 4.0 / 3.0

	// CodeMinClearSpacing is the absolute minimum clear spacing between
	// parallel bars in a layer (mm), NSCP 2015 Section 425.2.1.
	CodeMinClearSpacing = 25.0

	// DevelopmentLengthFactor approximates the straight development
	// length of a deformed bar as a multiple of its diameter.
	DevelopmentLengthFactor = 40.0
)

// StandardDiameters lists the commercially available deformed bar
// diameters (mm), smallest first.
var StandardDiameters = []int{10, 12, 16, 20, 25, 28, 32, 36}

// Area returns the nominal cross-sectional area (mm²) of one bar.
func Area(dia int) float64 {
	d := float64(dia)
	return math.Pi * d * d / 4
}

// UnitWeight returns the weight per meter of one bar (kg/m).
func UnitWeight(dia int) float64 {
	return Area(dia) * SteelDensity * 1e-6
}

// Weight returns the weight (kg) of count bars of the given diameter
// over a run length in millimeters.
func Weight(dia, count int, lengthMM float64) float64 {
	return UnitWeight(dia) * float64(count) * lengthMM / 1000
}

// RequiredClearSpacing returns the governing minimum clear spacing (mm)
// between adjacent bars in one layer.
// NSCP 2015 Section 425.2.1: max of db, 4/3 aggregate, 25 mm; the
// configured minimum may push it higher still.
func RequiredClearSpacing(dia int, aggregateSize, configuredMin float64) float64 {
	s := math.Max(float64(dia), AggregateSpacingFactor*aggregateSize)
	s = math.Max(s, CodeMinClearSpacing)
	return math.Max(s, configuredMin)
}

// DevelopmentLength returns the anchorage allowance (mm) added to each
// end of an addon bar run.
func DevelopmentLength(dia int) float64 {
	return DevelopmentLengthFactor * float64(dia)
}

// SpliceCount returns how many lap splices a continuous run of the
// given length (mm) needs when bars come in the given stock length.
func SpliceCount(runLength, stockLength float64) int {
	if stockLength <= 0 || runLength <= stockLength {
		return 0
	}
	return int(math.Ceil(runLength/stockLength)) - 1
}

// MaxBarsInWidth returns how many bars of the given diameter fit in a
// single layer across a usable width (mm) at the given clear spacing.
func MaxBarsInWidth(usableWidth float64, dia int, clearSpacing float64) int {
	d := float64(dia)
	if usableWidth < d {
		return 0
	}
	// n bars need n·db + (n-1)·s
	n := int(math.Floor((usableWidth + clearSpacing) / (d + clearSpacing)))
	if n < 0 {
		return 0
	}
	return n
}

// ClearSpacing returns the actual clear spacing (mm) between bars of
// one diameter placed evenly across a usable width. Returns the full
// width when fewer than two bars are placed.
func ClearSpacing(usableWidth float64, dia, count int) float64 {
	if count < 2 {
		return usableWidth - float64(dia)*float64(count)
	}
	return (usableWidth - float64(dia)*float64(count)) / float64(count-1)
}
