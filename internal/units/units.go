// Package units normalizes beam dimensions to millimeters, the canonical
// unit used by every downstream calculation.
package units

import "fmt"

// Unit identifies the length unit of an incoming dimension.
type Unit int

const (
	// Unknown means the source did not tag the value; the magnitude
	// heuristic decides.
	Unknown Unit = iota
	Millimeters
	Centimeters
	Meters
)

// String returns the conventional abbreviation.
func (u Unit) String() string {
	switch u {
	case Millimeters:
		return "mm"
	case Centimeters:
		return "cm"
	case Meters:
		return "m"
	default:
		return "?"
	}
}

// ParseUnit maps a unit tag from an input file to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "", "auto":
		return Unknown, nil
	case "mm":
		return Millimeters, nil
	case "cm":
		return Centimeters, nil
	case "m":
		return Meters, nil
	}
	return Unknown, fmt.Errorf("unrecognized length unit %q (want mm, cm, m or auto)", s)
}

// ToMillimeters converts a tagged value to millimeters.
// Untagged values go through Detect.
func ToMillimeters(v float64, u Unit) float64 {
	switch u {
	case Millimeters:
		return v
	case Centimeters:
		return v * 10
	case Meters:
		return v * 1000
	default:
		return ToMillimeters(v, Detect(v))
	}
}

// Detect guesses the unit of an untagged dimension from its magnitude.
// Cross-section dimensions below 5 are treated as meters, below 100 as
// centimeters, anything else as millimeters already. Ambiguous by
// construction; callers that know the unit should tag it instead.
func Detect(v float64) Unit {
	switch {
	case v < 5:
		return Meters
	case v < 100:
		return Centimeters
	default:
		return Millimeters
	}
}

// LengthToMillimeters converts a tagged span length to millimeters.
// Untagged lengths go through DetectLength.
func LengthToMillimeters(v float64, u Unit) float64 {
	if u == Unknown {
		u = DetectLength(v)
	}
	return ToMillimeters(v, u)
}

// DetectLength guesses the unit of an untagged span length. Spans run
// much longer than cross-section dimensions, so the thresholds sit a
// decade higher: below 100 is meters, below 1000 centimeters, anything
// else millimeters.
func DetectLength(v float64) Unit {
	switch {
	case v < 100:
		return Meters
	case v < 1000:
		return Centimeters
	default:
		return Millimeters
	}
}
