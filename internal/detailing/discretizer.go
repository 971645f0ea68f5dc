// Package detailing implements the four-stage reinforcement layout
// pipeline: discretization, per-section solving, topology merging and
// global optimization. The Calculator façade drives the stages.
package detailing

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
)

// negligibleArea is the steel demand (mm²) below which a face needs no
// reinforcement of its own.
const negligibleArea = 1.0

// Discretizer splits each span into longitudinal zones and produces
// one DesignSection per zone, with the governing demand of the zone's
// envelope band.
type Discretizer struct {
	cfg *config.Resolved
}

// NewDiscretizer builds a Discretizer over a resolved configuration.
func NewDiscretizer(cfg *config.Resolved) *Discretizer {
	return &Discretizer{cfg: cfg}
}

// Discretize produces the ordered DesignSection sequence for a beam.
func (d *Discretizer) Discretize(in *model.BeamInput) ([]*model.DesignSection, error) {
	if len(in.Spans) == 0 {
		return nil, fmt.Errorf("beam %s has no span geometry", in.Name)
	}

	zones := d.cfg.ZonesPerSpan
	sections := make([]*model.DesignSection, 0, len(in.Spans)*zones)

	var beamStart float64 // mm, running position of the span's left end
	for spanIdx, span := range in.Spans {
		lengthMM := span.LengthMM()
		widthMM := span.WidthMM()
		heightMM := span.HeightMM()

		usableWidth := widthMM - 2*(d.cfg.CoverSide+d.cfg.StirrupDiameter)
		usableHeight := heightMM - d.cfg.CoverTop - d.cfg.CoverBottom - 2*d.cfg.StirrupDiameter

		var forces model.SpanForceResult
		if spanIdx < len(in.Forces) {
			forces = in.Forces[spanIdx]
		}

		for zoneIdx := 0; zoneIdx < zones; zoneIdx++ {
			rel := float64(zoneIdx) / float64(zones-1)
			sec := &model.DesignSection{
				SpanIndex:    spanIdx,
				ZoneIndex:    zoneIdx,
				Zone:         zoneName(zoneIdx, zones),
				Position:     beamStart + rel*lengthMM,
				UsableWidth:  usableWidth,
				UsableHeight: usableHeight,
			}
			sec.ID = fmt.Sprintf("S%d_%s", spanIdx+1, sec.Zone)

			switch zoneIdx {
			case 0:
				sec.Type = model.Support
				sec.IsLeftSupport = true
				if spanIdx == 0 && span.LeftSupport == model.SupportNone {
					sec.Type = model.FreeEnd
				}
			case zones - 1:
				sec.Type = model.Support
				sec.IsRightSupport = true
				if spanIdx == len(in.Spans)-1 && span.RightSupport == model.SupportNone {
					sec.Type = model.FreeEnd
				}
			default:
				if zones == 3 || zoneIdx == zones/2 {
					sec.Type = model.MidSpan
				} else {
					sec.Type = model.QuarterSpan
				}
			}

			band := d.zoneBand(zoneIdx, zones)
			flexTop := bandMax(forces.TopArea, band)
			flexBot := bandMax(forces.BottomArea, band)
			torsion := bandMax(forces.TorsionArea, band)

			sec.RequiredTop = (flexTop + torsion*d.cfg.TorsionTopRatio) * d.cfg.SafetyFactor
			sec.RequiredBottom = (flexBot + torsion*d.cfg.TorsionBottomRatio) * d.cfg.SafetyFactor
			sec.StirrupRate = bandMax(forces.ShearArea, band)

			sections = append(sections, sec)
		}

		beamStart += lengthMM
	}

	if !hasDemand(sections) {
		return nil, fmt.Errorf("beam %s has no force envelope data", in.Name)
	}
	return sections, nil
}

// zoneName maps a zone index to its display name. Three-zone spans use
// the conventional Left/Mid/Right; finer subdivisions number the
// interior zones.
func zoneName(zoneIdx, zones int) model.Zone {
	switch zoneIdx {
	case 0:
		return model.ZoneLeft
	case zones - 1:
		return model.ZoneRight
	}
	if zones == 3 {
		return model.ZoneMid
	}
	if zoneIdx == zones/2 {
		return model.ZoneMid
	}
	return model.Zone(fmt.Sprintf("Q%d", zoneIdx))
}

// band is a fractional window [lo, hi] of the envelope stations.
type band struct {
	lo, hi float64
}

// zoneBand returns the envelope window a zone scans: the left-support
// zone scans the first LeftZoneRatio of stations, the right-support
// zone the last RightZoneRatio, interior zones the middle.
func (d *Discretizer) zoneBand(zoneIdx, zones int) band {
	switch zoneIdx {
	case 0:
		return band{0, d.cfg.LeftZoneRatio}
	case zones - 1:
		return band{1 - d.cfg.RightZoneRatio, 1}
	default:
		return band{d.cfg.LeftZoneRatio, 1 - d.cfg.RightZoneRatio}
	}
}

// bandMax scans the samples falling inside the band and returns the
// largest. Negative samples are data errors upstream and clamp to
// zero. An empty band falls back to the whole array.
func bandMax(samples []float64, b band) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	lo := int(math.Floor(b.lo * float64(n-1)))
	hi := int(math.Ceil(b.hi * float64(n-1)))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	if hi < lo {
		lo, hi = 0, n-1
	}
	var max float64
	for _, v := range samples[lo : hi+1] {
		if v > max {
			max = v
		}
	}
	return max
}

func hasDemand(sections []*model.DesignSection) bool {
	for _, s := range sections {
		if s.RequiredTop > negligibleArea || s.RequiredBottom > negligibleArea {
			return true
		}
	}
	return false
}
