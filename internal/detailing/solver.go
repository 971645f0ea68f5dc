package detailing

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/rebar"
)

// Solver enumerates and ranks the valid bar arrangements for each
// design section and face.
type Solver struct {
	cfg  *config.Resolved
	cons model.ExternalConstraints
}

// NewSolver builds a Solver over a resolved configuration and the
// caller's constraints.
func NewSolver(cfg *config.Resolved, cons model.ExternalConstraints) *Solver {
	return &Solver{cfg: cfg, cons: cons}
}

// SolveAll populates the top and bottom option lists of every section.
// Returns an error naming every unsolvable section-face.
func (s *Solver) SolveAll(sections []*model.DesignSection) error {
	var result *multierror.Error
	for _, sec := range sections {
		for _, side := range model.Sides {
			opts, err := s.Solve(sec, side)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			sec.SetOptions(side, opts)
		}
	}
	return result.ErrorOrNil()
}

// Solve returns the ranked valid arrangements for one face of one
// section. The list is never empty on success: when no arrangement
// survives the preferences, a largest-diameter fallback is forced.
func (s *Solver) Solve(sec *model.DesignSection, side model.Side) ([]model.SectionArrangement, error) {
	req := sec.Required(side)
	if req <= negligibleArea {
		return []model.SectionArrangement{model.EmptyArrangement()}, nil
	}

	var all []model.SectionArrangement
	for _, dia := range s.diameters() {
		all = append(all, s.enumerate(sec, dia, req)...)
	}
	if s.cfg.AllowDiameterMixing {
		all = append(all, s.enumerateMixed(sec, req)...)
	}

	tol := s.cfg.AreaTolerance()
	kept := all[:0]
	for _, a := range all {
		if a.ProvidedArea >= req*(1-tol) {
			kept = append(kept, a)
		}
	}

	rankArrangements(kept)
	if len(kept) > s.cfg.MaxArrangements {
		kept = kept[:s.cfg.MaxArrangements]
	}

	if len(kept) == 0 {
		fb, err := s.fallback(sec, side, req)
		if err != nil {
			return nil, err
		}
		kept = []model.SectionArrangement{fb}
	}
	return kept, nil
}

// diameters returns the candidate inventory for main bars, filtered by
// the configured range and the caller's constraints, ordered by
// preference: largest first when fewer bars are preferred.
func (s *Solver) diameters() []int {
	base := s.cfg.MainDiameters()
	out := make([]int, 0, len(base))
	for _, d := range base {
		if s.cons.AllowsDiameter(d) {
			out = append(out, d)
		}
	}
	if s.cfg.PreferFewerBars {
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
	}
	return out
}

// enumerate generates every valid single-diameter arrangement for one
// face at one diameter.
func (s *Solver) enumerate(sec *model.DesignSection, dia int, req float64) []model.SectionArrangement {
	unit := rebar.Area(dia)
	rawCount := int(math.Ceil(req / unit))

	minCount := rawCount
	if minCount < s.cfg.MinBarsPerLayer {
		minCount = s.cfg.MinBarsPerLayer
	}
	if s.cfg.PreferSymmetric && minCount%2 != 0 {
		minCount++
	}

	spacing := rebar.RequiredClearSpacing(dia, s.cfg.AggregateSize, s.cfg.MinClearSpacing)
	maxPerLayer := rebar.MaxBarsInWidth(sec.UsableWidth, dia, spacing)
	if maxPerLayer > s.cfg.MaxBarsPerLayer {
		maxPerLayer = s.cfg.MaxBarsPerLayer
	}
	if maxPerLayer < s.cfg.MinBarsPerLayer {
		return nil // diameter does not fit this width
	}

	maxLayers := s.layersFor(sec, dia)
	if maxLayers == 0 {
		return nil
	}

	capTotal := maxPerLayer * maxLayers
	if capTotal > minCount+4 {
		capTotal = minCount + 4
	}

	var out []model.SectionArrangement
	for total := minCount; total <= capTotal; total++ {
		for _, layers := range partitionLayers(total, maxPerLayer, maxLayers, s.cfg.MinBarsPerLayer) {
			a := model.SectionArrangement{
				Diameter:     dia,
				Count:        total,
				ProvidedArea: float64(total) * unit,
				RequiredArea: req,
				Layers:       len(layers),
				BarsPerLayer: layers,
				ClearSpacing: rebar.ClearSpacing(sec.UsableWidth, dia, layers[0]),
				WasteBars:    total - rawCount,
			}
			a.Efficiency = a.ProvidedArea / req
			if a.ClearSpacing < spacing {
				continue
			}
			a.Score = s.score(a, req)
			out = append(out, a)
		}
	}
	return out
}

// layersFor bounds the layer count by the configured maximum and by
// the vertical room one face may claim (half the usable height).
func (s *Solver) layersFor(sec *model.DesignSection, dia int) int {
	perLayer := float64(dia) + s.cfg.MinLayerSpacing
	budget := sec.UsableHeight / 2
	byHeight := int(math.Floor((budget + s.cfg.MinLayerSpacing) / perLayer))
	if byHeight < 0 {
		byHeight = 0
	}
	if byHeight > s.cfg.MaxLayers {
		return s.cfg.MaxLayers
	}
	return byHeight
}

// partitionLayers splits a total bar count into pyramidal layer
// breakdowns: outermost layer first, each inner layer no larger than
// the one outside it, the first layer at least minFirst bars and every
// later layer at least 2.
func partitionLayers(total, maxPerLayer, maxLayers, minFirst int) [][]int {
	var out [][]int
	var rec func(remaining, ceiling int, acc []int)
	rec = func(remaining, ceiling int, acc []int) {
		if remaining == 0 {
			out = append(out, append([]int(nil), acc...))
			return
		}
		if len(acc) == maxLayers {
			return
		}
		floor := 2
		if len(acc) == 0 {
			floor = minFirst
		}
		hi := ceiling
		if remaining < hi {
			hi = remaining
		}
		for n := hi; n >= floor; n-- {
			// the remainder after this layer must still be
			// placeable in pyramidal form
			rest := remaining - n
			if rest > 0 && (rest < 2 || rest > n*(maxLayers-len(acc)-1)) {
				continue
			}
			rec(rest, n, append(acc, n))
		}
	}
	rec(total, maxPerLayer, nil)
	return out
}

// enumerateMixed generates two-diameter single-layer layouts for
// demands no single diameter covers economically. Penalized by a fixed
// score malus; still subject to spacing.
func (s *Solver) enumerateMixed(sec *model.DesignSection, req float64) []model.SectionArrangement {
	const mixedMalus = 15

	dias := s.diameters()
	var out []model.SectionArrangement
	for i := 0; i < len(dias); i++ {
		for j := range dias {
			d1, d2 := dias[i], dias[j]
			if d2 >= d1 {
				continue
			}
			a1, a2 := rebar.Area(d1), rebar.Area(d2)
			spacing := rebar.RequiredClearSpacing(d1, s.cfg.AggregateSize, s.cfg.MinClearSpacing)
			for c1 := s.cfg.MinBarsPerLayer; c1 <= s.cfg.MaxBarsPerLayer; c1++ {
				deficit := req - float64(c1)*a1
				if deficit <= 0 {
					break
				}
				c2 := int(math.Ceil(deficit / a2))
				if c2 < 2 {
					c2 = 2
				}
				n := c1 + c2
				if n > s.cfg.MaxBarsPerLayer {
					continue
				}
				occupied := float64(c1)*float64(d1) + float64(c2)*float64(d2)
				clear := (sec.UsableWidth - occupied) / float64(n-1)
				if clear < spacing {
					continue
				}
				a := model.SectionArrangement{
					Diameter:      d1,
					Count:         c1,
					MixedDiameter: d2,
					MixedCount:    c2,
					ProvidedArea:  float64(c1)*a1 + float64(c2)*a2,
					RequiredArea:  req,
					Layers:        1,
					BarsPerLayer:  []int{n},
					ClearSpacing:  clear,
					WasteBars:     0,
				}
				a.Efficiency = a.ProvidedArea / req
				a.Score = s.score(a, req) - mixedMalus
				if a.Score < 0 {
					a.Score = 0
				}
				out = append(out, a)
			}
		}
	}
	return out
}

// fallback forces a largest-diameter arrangement when nothing survives
// the preferences, so every solvable section keeps at least one
// option. Soft preferences are ignored; spacing and the layer cap are
// not.
func (s *Solver) fallback(sec *model.DesignSection, side model.Side, req float64) (model.SectionArrangement, error) {
	dias := s.diameters()
	if len(dias) == 0 {
		return model.SectionArrangement{}, fmt.Errorf("section %s %s: no allowed diameters", sec.ID, side)
	}
	dia := dias[0]
	for _, d := range dias {
		if d > dia {
			dia = d
		}
	}

	unit := rebar.Area(dia)
	need := int(math.Ceil(req / unit))
	if need < s.cfg.MinBarsPerLayer {
		need = s.cfg.MinBarsPerLayer
	}

	spacing := rebar.RequiredClearSpacing(dia, s.cfg.AggregateSize, s.cfg.MinClearSpacing)
	maxPerLayer := rebar.MaxBarsInWidth(sec.UsableWidth, dia, spacing)
	if maxPerLayer > s.cfg.MaxBarsPerLayer {
		maxPerLayer = s.cfg.MaxBarsPerLayer
	}
	maxLayers := s.layersFor(sec, dia)
	if maxLayers < 1 {
		maxLayers = 1
	}

	if maxPerLayer < 1 || need > maxPerLayer*maxLayers {
		return model.SectionArrangement{}, fmt.Errorf(
			"section %s %s: required %.0f mm² exceeds capacity of %d-φ%d at %d layers",
			sec.ID, side, req, maxPerLayer*maxLayers, dia, maxLayers)
	}

	// fill outer layers first
	layers := make([]int, 0, maxLayers)
	remaining := need
	for remaining > 0 {
		n := remaining
		if n > maxPerLayer {
			n = maxPerLayer
		}
		if len(layers) > 0 && n < 2 {
			n = 2
		}
		layers = append(layers, n)
		remaining -= n
	}

	a := model.SectionArrangement{
		Diameter:     dia,
		Count:        need,
		ProvidedArea: float64(need) * unit,
		RequiredArea: req,
		Layers:       len(layers),
		BarsPerLayer: layers,
		ClearSpacing: rebar.ClearSpacing(sec.UsableWidth, dia, layers[0]),
		WasteBars:    0,
	}
	a.Efficiency = a.ProvidedArea / req
	a.Score = s.score(a, req) / 2 // forced option ranks below anything organic
	return a, nil
}

// rankArrangements orders by score descending with deterministic
// tie-breaking: fewer bars, then fewer layers, then smaller diameter.
func rankArrangements(list []model.SectionArrangement) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TotalBars() != b.TotalBars() {
			return a.TotalBars() < b.TotalBars()
		}
		if a.Layers != b.Layers {
			return a.Layers < b.Layers
		}
		return a.Diameter < b.Diameter
	})
}
