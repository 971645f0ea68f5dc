package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/alexiusacademia/gorebar/internal/rebar"
)

// Resolved is the fully-resolved configuration consumed by the
// pipeline. Every field holds a concrete value; no stage ever checks
// for a missing setting. Treat as immutable once built.
type Resolved struct {
	Diameters []int

	MinMainDiameter int
	MaxMainDiameter int

	CoverTop    float64
	CoverBottom float64
	CoverSide   float64

	StirrupDiameter float64

	MinClearSpacing float64
	MaxClearSpacing float64
	MinLayerSpacing float64
	AggregateSize   float64

	MinBarsPerLayer int
	MaxBarsPerLayer int
	MaxLayers       int

	SafetyFactor float64

	TorsionTopRatio    float64
	TorsionBottomRatio float64
	TorsionSideRatio   float64

	LeftZoneRatio  float64
	RightZoneRatio float64

	PreferSymmetric         bool
	PreferFewerBars         bool
	PreferSingleDiameter    bool
	PreferEvenDiameter      bool
	PreferVerticalAlignment bool
	AllowDiameterMixing     bool

	PreferredDiameter int

	EnforceStirrupLegs bool
	MaxStirrupLegs     int
	BarsPerStirrupLeg  int

	EfficiencyWeight float64

	StockLength float64

	ZonesPerSpan           int
	MaxArrangements        int
	MaxBackboneCandidates  int
	MaxSolutions           int
	MaxFailedSectionRatio  float64
	MergeBarCountTolerance int
	MergeLayerTolerance    int
}

// Default values for every rule. Dimensions in mm.
const (
	DefaultCoverTop        = 40.0
	DefaultCoverBottom     = 40.0
	DefaultCoverSide       = 40.0
	DefaultStirrupDiameter = 10.0
	DefaultMinClearSpacing = 25.0
	DefaultMaxClearSpacing = 300.0
	DefaultMinLayerSpacing = 25.0
	DefaultAggregateSize   = 20.0
	DefaultMinBarsPerLayer = 2
	DefaultMaxBarsPerLayer = 8
	DefaultMaxLayers       = 3
	DefaultSafetyFactor    = 1.05
	DefaultTorsionRatio    = 0.25
	DefaultZoneRatio       = 0.25
	DefaultMaxStirrupLegs  = 4
	DefaultBarsPerLeg      = 2
	DefaultEfficiencyWt    = 0.6
	DefaultStockLength     = 12000.0
	DefaultZonesPerSpan    = 3
	DefaultMaxArrangements = 8
	DefaultMaxCandidates   = 40
	DefaultMaxSolutions    = 5
	DefaultMaxFailedRatio  = 0.2
	DefaultMergeCountTol   = 1
	DefaultMergeLayerTol   = 1
)

func f(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func i(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func b(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

// Resolve applies defaults to a raw Settings and validates the result.
// A nil Settings resolves to the pure defaults.
func Resolve(s *Settings) (*Resolved, error) {
	if s == nil {
		s = &Settings{}
	}

	r := &Resolved{
		Diameters: append([]int(nil), s.Diameters...),

		MinMainDiameter: i(s.MinMainDiameter, 12),
		MaxMainDiameter: i(s.MaxMainDiameter, 32),

		CoverTop:    f(s.CoverTop, DefaultCoverTop),
		CoverBottom: f(s.CoverBottom, DefaultCoverBottom),
		CoverSide:   f(s.CoverSide, DefaultCoverSide),

		StirrupDiameter: f(s.StirrupDiameter, DefaultStirrupDiameter),

		MinClearSpacing: f(s.MinClearSpacing, DefaultMinClearSpacing),
		MaxClearSpacing: f(s.MaxClearSpacing, DefaultMaxClearSpacing),
		MinLayerSpacing: f(s.MinLayerSpacing, DefaultMinLayerSpacing),
		AggregateSize:   f(s.AggregateSize, DefaultAggregateSize),

		MinBarsPerLayer: i(s.MinBarsPerLayer, DefaultMinBarsPerLayer),
		MaxBarsPerLayer: i(s.MaxBarsPerLayer, DefaultMaxBarsPerLayer),
		MaxLayers:       i(s.MaxLayers, DefaultMaxLayers),

		SafetyFactor: f(s.SafetyFactor, DefaultSafetyFactor),

		TorsionTopRatio:    f(s.TorsionTopRatio, DefaultTorsionRatio),
		TorsionBottomRatio: f(s.TorsionBottomRatio, DefaultTorsionRatio),
		TorsionSideRatio:   f(s.TorsionSideRatio, 0.5),

		LeftZoneRatio:  f(s.LeftZoneRatio, DefaultZoneRatio),
		RightZoneRatio: f(s.RightZoneRatio, DefaultZoneRatio),

		PreferSymmetric:         b(s.PreferSymmetric, true),
		PreferFewerBars:         b(s.PreferFewerBars, true),
		PreferSingleDiameter:    b(s.PreferSingleDiameter, true),
		PreferEvenDiameter:      b(s.PreferEvenDiameter, false),
		PreferVerticalAlignment: b(s.PreferVerticalAlignment, true),
		AllowDiameterMixing:     b(s.AllowDiameterMixing, false),

		PreferredDiameter: i(s.PreferredDiameter, 0),

		EnforceStirrupLegs: b(s.EnforceStirrupLegs, false),
		MaxStirrupLegs:     i(s.MaxStirrupLegs, DefaultMaxStirrupLegs),
		BarsPerStirrupLeg:  i(s.BarsPerStirrupLeg, DefaultBarsPerLeg),

		EfficiencyWeight: f(s.EfficiencyWeight, DefaultEfficiencyWt),

		StockLength: f(s.StockLength, DefaultStockLength),

		ZonesPerSpan:           i(s.ZonesPerSpan, DefaultZonesPerSpan),
		MaxArrangements:        i(s.MaxArrangements, DefaultMaxArrangements),
		MaxBackboneCandidates:  i(s.MaxBackboneCandidates, DefaultMaxCandidates),
		MaxSolutions:           i(s.MaxSolutions, DefaultMaxSolutions),
		MaxFailedSectionRatio:  f(s.MaxFailedSectionRatio, DefaultMaxFailedRatio),
		MergeBarCountTolerance: i(s.MergeBarCountTolerance, DefaultMergeCountTol),
		MergeLayerTolerance:    i(s.MergeLayerTolerance, DefaultMergeLayerTol),
	}

	if len(r.Diameters) == 0 {
		r.Diameters = append([]int(nil), rebar.StandardDiameters...)
	}
	sort.Ints(r.Diameters)

	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolved) validate() error {
	var result *multierror.Error

	if len(r.Diameters) == 0 {
		result = multierror.Append(result, fmt.Errorf("diameter inventory is empty"))
	}
	for _, d := range r.Diameters {
		if d <= 0 {
			result = multierror.Append(result, fmt.Errorf("diameter %d must be positive", d))
		}
	}
	if r.MinMainDiameter > r.MaxMainDiameter {
		result = multierror.Append(result, fmt.Errorf("min main diameter %d exceeds max %d", r.MinMainDiameter, r.MaxMainDiameter))
	}
	if r.CoverTop < 0 || r.CoverBottom < 0 || r.CoverSide < 0 {
		result = multierror.Append(result, fmt.Errorf("cover must be non-negative"))
	}
	if r.MinClearSpacing <= 0 {
		result = multierror.Append(result, fmt.Errorf("min clear spacing must be positive"))
	}
	if r.MaxClearSpacing < r.MinClearSpacing {
		result = multierror.Append(result, fmt.Errorf("max clear spacing %.0f below min %.0f", r.MaxClearSpacing, r.MinClearSpacing))
	}
	if r.MinBarsPerLayer < 1 {
		result = multierror.Append(result, fmt.Errorf("min bars per layer must be at least 1"))
	}
	if r.MaxBarsPerLayer < r.MinBarsPerLayer {
		result = multierror.Append(result, fmt.Errorf("max bars per layer %d below min %d", r.MaxBarsPerLayer, r.MinBarsPerLayer))
	}
	if r.MaxLayers < 1 {
		result = multierror.Append(result, fmt.Errorf("max layers must be at least 1"))
	}
	if r.SafetyFactor < 1 {
		result = multierror.Append(result, fmt.Errorf("safety factor %.3f must be >= 1", r.SafetyFactor))
	}
	if r.LeftZoneRatio <= 0 || r.LeftZoneRatio >= 1 {
		result = multierror.Append(result, fmt.Errorf("left zone ratio %.2f must be in (0,1)", r.LeftZoneRatio))
	}
	if r.RightZoneRatio <= 0 || r.RightZoneRatio >= 1 {
		result = multierror.Append(result, fmt.Errorf("right zone ratio %.2f must be in (0,1)", r.RightZoneRatio))
	}
	if r.EfficiencyWeight < 0 || r.EfficiencyWeight > 1 {
		result = multierror.Append(result, fmt.Errorf("efficiency weight %.2f must be in [0,1]", r.EfficiencyWeight))
	}
	if r.ZonesPerSpan < 2 {
		result = multierror.Append(result, fmt.Errorf("zones per span must be at least 2"))
	}
	if r.MaxSolutions < 1 {
		result = multierror.Append(result, fmt.Errorf("max solutions must be at least 1"))
	}
	if r.MaxFailedSectionRatio < 0 || r.MaxFailedSectionRatio >= 1 {
		result = multierror.Append(result, fmt.Errorf("max failed section ratio %.2f must be in [0,1)", r.MaxFailedSectionRatio))
	}

	return result.ErrorOrNil()
}

// MainDiameters returns the inventory filtered to the allowed main-bar
// range, optionally to even diameters only, smallest first.
func (r *Resolved) MainDiameters() []int {
	out := make([]int, 0, len(r.Diameters))
	for _, d := range r.Diameters {
		if d < r.MinMainDiameter || d > r.MaxMainDiameter {
			continue
		}
		if r.PreferEvenDiameter && d%2 != 0 {
			continue
		}
		out = append(out, d)
	}
	return out
}

// AreaTolerance is the relative shortfall allowed when comparing
// provided area against the safety-factored requirement. The raw
// (unfactored) requirement always remains covered.
func (r *Resolved) AreaTolerance() float64 {
	return 1 - 1/r.SafetyFactor
}

// RequiredLegs returns the stirrup leg count needed to restrain the
// given number of bars in one layer.
func (r *Resolved) RequiredLegs(barCount int) int {
	if barCount <= 0 {
		return 0
	}
	legs := (barCount + r.BarsPerStirrupLeg - 1) / r.BarsPerStirrupLeg
	if legs < 2 {
		legs = 2
	}
	return legs
}
