package detailing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/rebar"
)

// Optimizer searches over beam-wide backbone candidates, covers every
// section with addons where the backbone falls short, and ranks the
// resulting whole-beam solutions.
type Optimizer struct {
	cfg  *config.Resolved
	cons model.ExternalConstraints
}

// NewOptimizer builds an Optimizer over a resolved configuration and
// the caller's constraints.
func NewOptimizer(cfg *config.Resolved, cons model.ExternalConstraints) *Optimizer {
	return &Optimizer{cfg: cfg, cons: cons}
}

// FindBestSolutions evaluates every harvested backbone candidate
// against the merged sections and returns the top solutions by score.
// Returns an error only when not a single candidate can be evaluated.
func (o *Optimizer) FindBestSolutions(in *model.BeamInput, sections []*model.DesignSection) ([]*model.ContinuousBeamSolution, error) {
	candidates := o.harvest(sections)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no backbone candidates could be harvested")
	}

	type evaluated struct {
		cand    model.BackboneCandidate
		entries map[string]model.Reinforcement
	}
	var accepted []evaluated
	var bestRelaxed *evaluated
	bestFit := -1

	totalFaces := len(sections) * 2
	for _, cand := range candidates {
		if !o.revalidateGeometry(cand, sections) {
			continue
		}
		entries, failed := o.resolveSections(cand, sections)
		cand.FailedSections = failed
		fit := totalFaces - len(failed)

		if fit > bestFit {
			bestFit = fit
			bestRelaxed = &evaluated{cand: cand, entries: entries}
		}
		if float64(len(failed))/float64(totalFaces) > o.cfg.MaxFailedSectionRatio {
			continue
		}
		cand.Valid = true
		accepted = append(accepted, evaluated{cand: cand, entries: entries})
	}

	relaxed := false
	if len(accepted) == 0 {
		if bestRelaxed == nil {
			return nil, fmt.Errorf("no backbone candidate fits any section geometry")
		}
		accepted = append(accepted, *bestRelaxed)
		relaxed = true
	}

	solutions := make([]*model.ContinuousBeamSolution, 0, len(accepted))
	for _, ev := range accepted {
		sol := o.buildSolution(in, sections, ev.cand, ev.entries, relaxed)
		solutions = append(solutions, sol)
	}

	sort.SliceStable(solutions, func(i, j int) bool {
		if solutions[i].TotalScore != solutions[j].TotalScore {
			return solutions[i].TotalScore > solutions[j].TotalScore
		}
		return solutions[i].TotalWeight < solutions[j].TotalWeight
	})
	if len(solutions) > o.cfg.MaxSolutions {
		solutions = solutions[:o.cfg.MaxSolutions]
	}
	return solutions, nil
}

// harvest collects backbone candidates from the (diameter, count)
// pairs the solver already proved feasible, plus a few balanced
// combinations for the diameters the sections use most. Never invents
// a pair the solver rejected.
func (o *Optimizer) harvest(sections []*model.DesignSection) []model.BackboneCandidate {
	topCounts := map[int]map[int]bool{} // dia -> counts
	botCounts := map[int]map[int]bool{}
	diaUse := map[int]int{}

	note := func(m map[int]map[int]bool, a model.SectionArrangement) {
		if a.IsEmpty() || a.IsMixed() {
			return
		}
		if m[a.Diameter] == nil {
			m[a.Diameter] = map[int]bool{}
		}
		m[a.Diameter][a.Count] = true
		diaUse[a.Diameter]++
	}
	for _, sec := range sections {
		for _, a := range sec.TopOptions {
			note(topCounts, a)
		}
		for _, a := range sec.BottomOptions {
			note(botCounts, a)
		}
	}

	// balanced combinations for the most common diameters
	for dia, uses := range diaUse {
		if uses < 2 {
			continue
		}
		for c := o.cfg.MinBarsPerLayer; c <= o.cfg.MinBarsPerLayer+2; c++ {
			if topCounts[dia] == nil {
				topCounts[dia] = map[int]bool{}
			}
			if botCounts[dia] == nil {
				botCounts[dia] = map[int]bool{}
			}
			topCounts[dia][c] = true
			botCounts[dia][c] = true
		}
	}

	var out []model.BackboneCandidate
	for dia, tops := range topCounts {
		if !o.cons.AllowsDiameter(dia) {
			continue
		}
		bots := botCounts[dia]
		if bots == nil {
			continue
		}
		for tc := range tops {
			for bc := range bots {
				if o.cons.ForcedTopCount != 0 && tc != o.cons.ForcedTopCount {
					continue
				}
				if o.cons.ForcedBottomCount != 0 && bc != o.cons.ForcedBottomCount {
					continue
				}
				unit := rebar.Area(dia)
				out = append(out, model.BackboneCandidate{
					Diameter:    dia,
					TopCount:    tc,
					BottomCount: bc,
					TopArea:     float64(tc) * unit,
					BottomArea:  float64(bc) * unit,
				})
			}
		}
	}

	// deterministic order: lightest steel first, then by triple
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		wa := a.TopArea + a.BottomArea
		wb := b.TopArea + b.BottomArea
		if wa != wb {
			return wa < wb
		}
		if a.Diameter != b.Diameter {
			return a.Diameter < b.Diameter
		}
		if a.TopCount != b.TopCount {
			return a.TopCount < b.TopCount
		}
		return a.BottomCount < b.BottomCount
	})
	if len(out) > o.cfg.MaxBackboneCandidates {
		out = out[:o.cfg.MaxBackboneCandidates]
	}
	return out
}

// revalidateGeometry re-checks the backbone spacing in every section's
// usable width. Guards against a backbone that satisfied one section
// but violates clear spacing in a narrower one.
func (o *Optimizer) revalidateGeometry(cand model.BackboneCandidate, sections []*model.DesignSection) bool {
	min := rebar.RequiredClearSpacing(cand.Diameter, o.cfg.AggregateSize, o.cfg.MinClearSpacing)
	for _, sec := range sections {
		for _, side := range model.Sides {
			count := cand.Count(side)
			if count < 2 {
				return false
			}
			clear := rebar.ClearSpacing(sec.UsableWidth, cand.Diameter, count)
			if clear < min || clear > o.cfg.MaxClearSpacing {
				return false
			}
		}
	}
	return true
}

// resolveSections covers every section face with the backbone plus,
// where needed, an addon. Returns the reinforcement map and the keys
// of the faces that could not be covered.
func (o *Optimizer) resolveSections(cand model.BackboneCandidate, sections []*model.DesignSection) (map[string]model.Reinforcement, []string) {
	entries := make(map[string]model.Reinforcement, len(sections)*2)
	var failed []string
	for _, sec := range sections {
		for _, side := range model.Sides {
			entry, ok := o.resolveFace(cand, sec, side)
			entries[entry.Key] = entry
			if !ok {
				failed = append(failed, entry.Key)
			}
		}
	}
	return entries, failed
}

// resolveFace applies the lookup-first / synthesize-fallback policy
// for one face of one section.
func (o *Optimizer) resolveFace(cand model.BackboneCandidate, sec *model.DesignSection, side model.Side) (model.Reinforcement, bool) {
	req := sec.Required(side)
	tol := o.cfg.AreaTolerance()
	entry := model.Reinforcement{
		Key:          sec.Key(side),
		SpanIndex:    sec.SpanIndex,
		Side:         side,
		Zone:         sec.Zone,
		Diameter:     cand.Diameter,
		Count:        cand.Count(side),
		RequiredArea: req,
		ProvidedArea: cand.Area(side),
		Source:       model.NativeMatch,
	}

	// native match: backbone alone covers the demand
	if req <= negligibleArea || cand.Area(side) >= req*(1-tol) {
		return entry, true
	}

	// lookup: smallest solver-approved arrangement containing the
	// backbone as a strict subset
	if a, ok := o.lookupAddon(cand, sec, side, req*(1-tol)); ok {
		entry.AddonDiameter = a.Diameter
		entry.AddonCount = a.Count - cand.Count(side)
		entry.AddonLayers = a.Layers - 1
		if entry.AddonLayers < 1 {
			entry.AddonLayers = 1
		}
		entry.ProvidedArea = a.ProvidedArea
		entry.Source = model.LookupMatch
		return entry, true
	}

	// synthesize from the area deficit
	if dia, count, layers, ok := o.synthesizeAddon(cand, sec, side, req); ok {
		entry.AddonDiameter = dia
		entry.AddonCount = count
		entry.AddonLayers = layers
		entry.ProvidedArea = cand.Area(side) + float64(count)*rebar.Area(dia)
		entry.Source = model.Synthesized
		return entry, true
	}

	// force a minimal-diameter multi-layer addon
	if dia, count, layers, ok := o.forceAddon(cand, sec, side, req); ok {
		entry.AddonDiameter = dia
		entry.AddonCount = count
		entry.AddonLayers = layers
		entry.ProvidedArea = cand.Area(side) + float64(count)*rebar.Area(dia)
		entry.Source = model.Forced
		return entry, true
	}

	entry.Source = model.Uncovered
	return entry, false
}

// lookupAddon finds the smallest approved arrangement that strictly
// contains the backbone, meets the floor, and keeps the stirrup parity
// rule.
func (o *Optimizer) lookupAddon(cand model.BackboneCandidate, sec *model.DesignSection, side model.Side, floor float64) (model.SectionArrangement, bool) {
	count := cand.Count(side)
	var best model.SectionArrangement
	found := false
	for _, a := range sec.Options(side) {
		if !a.Contains(cand.Diameter, count) || a.ProvidedArea < floor {
			continue
		}
		if !addonParityOK(count, a.Count-count) {
			continue
		}
		if !found || a.ProvidedArea < best.ProvidedArea {
			best = a
			found = true
		}
	}
	return best, found
}

// addonParityOK enforces the stirrup layer alignment rule: an even
// backbone needs an even addon so stirrup legs enclose both layers
// symmetrically. Odd backbones impose no restriction.
func addonParityOK(backboneCount, addonCount int) bool {
	if backboneCount%2 != 0 {
		return true
	}
	return addonCount%2 == 0
}

// synthesizeAddon derives an addon directly from the area deficit,
// re-checking spacing, spilling into further layers only when a single
// added layer cannot fit.
func (o *Optimizer) synthesizeAddon(cand model.BackboneCandidate, sec *model.DesignSection, side model.Side, req float64) (dia, count, layers int, ok bool) {
	deficit := req - cand.Area(side)
	backbone := cand.Count(side)

	for _, d := range o.addonDiameters(cand.Diameter) {
		c := int(math.Ceil(deficit / rebar.Area(d)))
		if c < 2 {
			c = 2 // an addon layer carries at least two bars
		}
		if !addonParityOK(backbone, c) {
			c++
		}
		spacing := rebar.RequiredClearSpacing(d, o.cfg.AggregateSize, o.cfg.MinClearSpacing)
		perLayer := rebar.MaxBarsInWidth(sec.UsableWidth, d, spacing)
		if perLayer > o.cfg.MaxBarsPerLayer {
			perLayer = o.cfg.MaxBarsPerLayer
		}
		if perLayer < 2 {
			continue
		}
		need := (c + perLayer - 1) / perLayer
		if 1+need > o.cfg.MaxLayers {
			continue
		}
		return d, c, need, true
	}
	return 0, 0, 0, false
}

// addonDiameters orders the candidate addon diameters: the backbone
// diameter first, then the rest of the inventory descending.
func (o *Optimizer) addonDiameters(backbone int) []int {
	rest := make([]int, 0, len(o.cfg.Diameters))
	for _, d := range o.cfg.Diameters {
		if d != backbone {
			rest = append(rest, d)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rest)))
	return append([]int{backbone}, rest...)
}

// forceAddon accepts a minimal-diameter multi-layer addon regardless
// of score, still subject to the configured layer limit.
func (o *Optimizer) forceAddon(cand model.BackboneCandidate, sec *model.DesignSection, side model.Side, req float64) (dia, count, layers int, ok bool) {
	if len(o.cfg.Diameters) == 0 {
		return 0, 0, 0, false
	}
	d := o.cfg.Diameters[0] // inventory is sorted ascending
	deficit := req - cand.Area(side)
	c := int(math.Ceil(deficit / rebar.Area(d)))
	if c < 2 {
		c = 2
	}
	if !addonParityOK(cand.Count(side), c) {
		c++
	}
	spacing := rebar.RequiredClearSpacing(d, o.cfg.AggregateSize, o.cfg.MinClearSpacing)
	perLayer := rebar.MaxBarsInWidth(sec.UsableWidth, d, spacing)
	if perLayer > o.cfg.MaxBarsPerLayer {
		perLayer = o.cfg.MaxBarsPerLayer
	}
	if perLayer < 1 {
		return 0, 0, 0, false
	}
	need := (c + perLayer - 1) / perLayer
	if 1+need > o.cfg.MaxLayers {
		return 0, 0, 0, false
	}
	return d, c, need, true
}

// buildSolution assembles, weighs and scores one whole-beam solution.
func (o *Optimizer) buildSolution(in *model.BeamInput, sections []*model.DesignSection, cand model.BackboneCandidate, entries map[string]model.Reinforcement, relaxed bool) *model.ContinuousBeamSolution {
	sol := &model.ContinuousBeamSolution{
		BeamName:            in.Name,
		BackboneDiameter:    cand.Diameter,
		BackboneTopCount:    cand.TopCount,
		BackboneBottomCount: cand.BottomCount,
		Reinforcements:      entries,
		IsValid:             true,
	}

	mergedRuns := o.mergeAdjacentAddons(in, sections, entries)

	var beamLength float64
	for _, span := range in.Spans {
		beamLength += span.LengthMM()
	}

	// backbone weight and splices
	runs := cand.TopCount + cand.BottomCount
	splicesPerRun := rebar.SpliceCount(beamLength, o.cfg.StockLength)
	sol.SpliceCount = splicesPerRun * runs
	lapLength := rebar.DevelopmentLength(cand.Diameter)
	sol.TotalWeight = rebar.Weight(cand.Diameter, runs, beamLength+float64(splicesPerRun)*lapLength)

	// addon weights over zone extent plus anchorage, and aggregate
	// area accounting
	var providedSum, requiredSum float64
	distinctAddons := map[string]bool{}
	natives := 0
	for _, sec := range sections {
		spanLen := in.Spans[sec.SpanIndex].LengthMM()
		extent := o.zoneExtent(sec.ZoneIndex, spanLen)
		for _, side := range model.Sides {
			e := entries[sec.Key(side)]
			if e.Source == model.Uncovered {
				continue // no real provision to account for
			}
			requiredSum += e.RequiredArea
			providedSum += e.ProvidedArea
			if e.Source == model.NativeMatch {
				natives++
			}
			if e.HasAddon() {
				distinctAddons[fmt.Sprintf("%d-%d", e.AddonDiameter, e.AddonCount)] = true
				run := extent + 2*rebar.DevelopmentLength(e.AddonDiameter)
				sol.TotalWeight += rebar.Weight(e.AddonDiameter, e.AddonCount, run)
			}
		}
	}
	// a merged addon run drops one pair of anchorage allowances
	for _, m := range mergedRuns {
		sol.TotalWeight -= rebar.Weight(m.dia, m.count, 2*rebar.DevelopmentLength(m.dia))
	}

	if requiredSum > 0 {
		sol.WastePercent = (providedSum - requiredSum) / requiredSum * 100
	}

	addonRuns := len(distinctAddons) - len(mergedRuns)
	if addonRuns < 0 {
		addonRuns = 0
	}
	o.scoreSolution(sol, cand, len(sections)*2, natives, addonRuns)

	sol.Spans = buildSpanResults(in, sections, entries, o.cfg)

	if relaxed && len(cand.FailedSections) > 0 {
		sol.Message = fmt.Sprintf("relaxed solution: %d uncovered section face(s): %s",
			len(cand.FailedSections), strings.Join(cand.FailedSections, ", "))
	}
	return sol
}

// zoneExtent returns the length (mm) of beam a zone's addon covers.
func (o *Optimizer) zoneExtent(zoneIdx int, spanLen float64) float64 {
	zones := o.cfg.ZonesPerSpan
	switch zoneIdx {
	case 0:
		return o.cfg.LeftZoneRatio * spanLen
	case zones - 1:
		return o.cfg.RightZoneRatio * spanLen
	default:
		middle := (1 - o.cfg.LeftZoneRatio - o.cfg.RightZoneRatio) * spanLen
		return middle / float64(zones-2)
	}
}

type mergedRun struct {
	dia, count int
}

// mergeAdjacentAddons walks the top-face addon runs in beam order and
// joins consecutive same-diameter, same-count runs into one continuous
// bar when the clear gap between their zone extents is below
// max(1000mm, 40·db). Runs abutting at a shared support have a zero
// gap and always merge. The entries keep their zone keys; the merge
// only changes length accounting and the distinct-addon tally.
func (o *Optimizer) mergeAdjacentAddons(in *model.BeamInput, sections []*model.DesignSection, entries map[string]model.Reinforcement) []mergedRun {
	spanStarts := make([]float64, len(in.Spans))
	spanLens := make([]float64, len(in.Spans))
	offset := 0.0
	for i, span := range in.Spans {
		spanStarts[i] = offset
		spanLens[i] = span.LengthMM()
		offset += spanLens[i]
	}

	ordered := append([]*model.DesignSection(nil), sections...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SpanIndex != ordered[j].SpanIndex {
			return ordered[i].SpanIndex < ordered[j].SpanIndex
		}
		return ordered[i].ZoneIndex < ordered[j].ZoneIndex
	})

	var out []mergedRun
	prevSet := false
	var prev model.Reinforcement
	var prevEnd float64
	for _, sec := range ordered {
		e := entries[sec.Key(model.Top)]
		if !e.HasAddon() {
			continue
		}
		start, end := o.zoneInterval(sec, spanStarts[sec.SpanIndex], spanLens[sec.SpanIndex])
		if prevSet && e.AddonDiameter == prev.AddonDiameter && e.AddonCount == prev.AddonCount {
			if start-prevEnd < math.Max(1000, 40*float64(e.AddonDiameter)) {
				out = append(out, mergedRun{dia: e.AddonDiameter, count: e.AddonCount})
			}
		}
		prev, prevEnd, prevSet = e, end, true
	}
	return out
}

// zoneInterval returns the global [start, end) of a section's addon
// extent in mm from the beam start.
func (o *Optimizer) zoneInterval(sec *model.DesignSection, spanStart, spanLen float64) (float64, float64) {
	extent := o.zoneExtent(sec.ZoneIndex, spanLen)
	switch sec.ZoneIndex {
	case 0:
		return spanStart, spanStart + extent
	case o.cfg.ZonesPerSpan - 1:
		return spanStart + spanLen - extent, spanStart + spanLen
	default:
		start := spanStart + o.cfg.LeftZoneRatio*spanLen + float64(sec.ZoneIndex-1)*extent
		return start, start + extent
	}
}

// buildSpanResults groups the reinforcement entries per span and
// attaches a stirrup label from the span's shear demand.
func buildSpanResults(in *model.BeamInput, sections []*model.DesignSection, entries map[string]model.Reinforcement, cfg *config.Resolved) []model.SpanRebarResult {
	out := make([]model.SpanRebarResult, len(in.Spans))
	for i := range out {
		out[i].SpanIndex = i
	}
	maxRate := make([]float64, len(in.Spans))
	for _, sec := range sections {
		r := &out[sec.SpanIndex]
		for _, side := range model.Sides {
			r.Entries = append(r.Entries, entries[sec.Key(side)])
		}
		if sec.StirrupRate > maxRate[sec.SpanIndex] {
			maxRate[sec.SpanIndex] = sec.StirrupRate
		}
	}
	for i := range out {
		out[i].StirrupLabel = stirrupLabel(maxRate[i], cfg)
	}
	return out
}

// stirrupLabel converts a stirrup area rate (mm²/m) to a two-leg
// stirrup spacing label, rounded down to a 25mm module.
func stirrupLabel(rate float64, cfg *config.Resolved) string {
	if rate <= 0 {
		return ""
	}
	dia := int(cfg.StirrupDiameter)
	legArea := 2 * rebar.Area(dia)
	spacing := legArea / rate * 1000 // mm
	if spacing > 300 {
		spacing = 300
	}
	spacing = math.Floor(spacing/25) * 25
	if spacing < 50 {
		spacing = 50
	}
	return fmt.Sprintf("φ%d@%.0f", dia, spacing)
}
