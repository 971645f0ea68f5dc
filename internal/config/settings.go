// Package config resolves the detailing settings into a single
// validated value object before the pipeline runs. Every numeric rule
// the stages consume lives here; the stages never apply defaults
// themselves.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings is the raw, caller-supplied configuration. Every field is
// optional; nil means "use the default". Decoded from the [settings]
// table of a job file or built in code by an embedding application.
type Settings struct {
	// Bar inventory (mm). Empty means the full standard inventory.
	Diameters []int `toml:"diameters"`

	// Allowed main-bar diameter sub-range (mm)
	MinMainDiameter *int `toml:"min_main_diameter"`
	MaxMainDiameter *int `toml:"max_main_diameter"`

	// Concrete cover to stirrup face (mm)
	CoverTop    *float64 `toml:"cover_top"`
	CoverBottom *float64 `toml:"cover_bottom"`
	CoverSide   *float64 `toml:"cover_side"`

	// Stirrup diameter estimate used for usable width/height (mm)
	StirrupDiameter *float64 `toml:"stirrup_diameter"`

	// Clear spacing limits within a layer (mm)
	MinClearSpacing *float64 `toml:"min_clear_spacing"`
	MaxClearSpacing *float64 `toml:"max_clear_spacing"`

	// Vertical clear distance between bar layers (mm)
	MinLayerSpacing *float64 `toml:"min_layer_spacing"`

	// Nominal maximum aggregate size (mm)
	AggregateSize *float64 `toml:"aggregate_size"`

	// Layering limits
	MinBarsPerLayer *int `toml:"min_bars_per_layer"`
	MaxBarsPerLayer *int `toml:"max_bars_per_layer"`
	MaxLayers       *int `toml:"max_layers"`

	// Steel area amplification applied to every requirement
	SafetyFactor *float64 `toml:"safety_factor"`

	// Fraction of torsional steel assigned to each face
	TorsionTopRatio    *float64 `toml:"torsion_top_ratio"`
	TorsionBottomRatio *float64 `toml:"torsion_bottom_ratio"`
	TorsionSideRatio   *float64 `toml:"torsion_side_ratio"`

	// Envelope scan band ratios (fraction of span length)
	LeftZoneRatio  *float64 `toml:"left_zone_ratio"`
	RightZoneRatio *float64 `toml:"right_zone_ratio"`

	// Preference flags
	PreferSymmetric         *bool `toml:"prefer_symmetric"`
	PreferFewerBars         *bool `toml:"prefer_fewer_bars"`
	PreferSingleDiameter    *bool `toml:"prefer_single_diameter"`
	PreferEvenDiameter      *bool `toml:"prefer_even_diameter"`
	PreferVerticalAlignment *bool `toml:"prefer_vertical_alignment"`
	AllowDiameterMixing     *bool `toml:"allow_diameter_mixing"`

	// Preferred diameter rewarded by the arrangement score (mm)
	PreferredDiameter *int `toml:"preferred_diameter"`

	// Stirrup leg rules
	EnforceStirrupLegs *bool `toml:"enforce_stirrup_legs"`
	MaxStirrupLegs     *int  `toml:"max_stirrup_legs"`
	BarsPerStirrupLeg  *int  `toml:"bars_per_stirrup_leg"`

	// Efficiency weight in the total score blend [0,1]; the
	// constructability weight is its complement.
	EfficiencyWeight *float64 `toml:"efficiency_weight"`

	// Standard stock bar length for splice detection (mm)
	StockLength *float64 `toml:"stock_length"`

	// Enumeration caps
	ZonesPerSpan           *int     `toml:"zones_per_span"`
	MaxArrangements        *int     `toml:"max_arrangements"`
	MaxBackboneCandidates  *int     `toml:"max_backbone_candidates"`
	MaxSolutions           *int     `toml:"max_solutions"`
	MaxFailedSectionRatio  *float64 `toml:"max_failed_section_ratio"`
	MergeBarCountTolerance *int     `toml:"merge_bar_count_tolerance"`
	MergeLayerTolerance    *int     `toml:"merge_layer_tolerance"`
}

// LoadSettings reads a standalone TOML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return &s, nil
}
