package detailing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/rebar"
)

// solvedBeam runs discretization, local solve and merge for a beam.
func solvedBeam(t *testing.T, in *model.BeamInput) []*model.DesignSection {
	t.Helper()
	cfg := testConfig(t, nil)
	sections, err := NewDiscretizer(cfg).Discretize(in)
	require.NoError(t, err)
	require.NoError(t, NewSolver(cfg, model.ExternalConstraints{}).SolveAll(sections))
	require.NoError(t, NewMerger(cfg).ApplyConstraints(sections))
	return sections
}

func TestHarvestOnlySolverProvenPairs(t *testing.T) {
	cfg := testConfig(t, nil)
	in := singleSpanBeam(450, 300)
	sections := solvedBeam(t, in)

	o := NewOptimizer(cfg, model.ExternalConstraints{})
	candidates := o.harvest(sections)
	require.NotEmpty(t, candidates)

	proven := map[int]bool{}
	for _, sec := range sections {
		for _, a := range append(sec.TopOptions, sec.BottomOptions...) {
			if !a.IsEmpty() {
				proven[a.Diameter] = true
			}
		}
	}
	for _, c := range candidates {
		assert.True(t, proven[c.Diameter],
			"candidate %s uses a diameter the solver never approved", c.Label())
		assert.InDelta(t, float64(c.TopCount)*rebar.Area(c.Diameter), c.TopArea, 0.001)
	}
}

func TestHarvestRespectsForcedCounts(t *testing.T) {
	cfg := testConfig(t, nil)
	sections := solvedBeam(t, singleSpanBeam(450, 300))

	o := NewOptimizer(cfg, model.ExternalConstraints{ForcedTopCount: 3, ForcedBottomCount: 2})
	for _, c := range o.harvest(sections) {
		assert.Equal(t, 3, c.TopCount)
		assert.Equal(t, 2, c.BottomCount)
	}
}

func TestGeometryRevalidationRejectsNarrowSection(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})

	wide := testSection("S1_Left", 200, 400, 500, 500)
	narrow := testSection("S1_Mid", 70, 400, 500, 500)

	cand := model.BackboneCandidate{
		Diameter: 25, TopCount: 2, BottomCount: 2,
		TopArea: 2 * rebar.Area(25), BottomArea: 2 * rebar.Area(25),
	}
	assert.True(t, o.revalidateGeometry(cand, []*model.DesignSection{wide}))
	assert.False(t, o.revalidateGeometry(cand, []*model.DesignSection{wide, narrow}),
		"phi25 backbone must fail the 70mm section")
}

func TestAddonParityRule(t *testing.T) {
	assert.True(t, addonParityOK(3, 1), "odd backbone imposes no restriction")
	assert.True(t, addonParityOK(3, 2))
	assert.True(t, addonParityOK(4, 2))
	assert.False(t, addonParityOK(4, 3), "even backbone needs an even addon")
}

func TestResolveFaceNativeMatch(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})
	sec := testSection("S1_Mid", 200, 400, 0, 400)
	sec.SpanIndex = 0

	cand := model.BackboneCandidate{Diameter: 20, TopCount: 2, BottomCount: 2,
		TopArea: 628.3, BottomArea: 628.3}
	entry, ok := o.resolveFace(cand, sec, model.Bottom)
	require.True(t, ok)
	assert.Equal(t, model.NativeMatch, entry.Source)
	assert.False(t, entry.HasAddon())
}

func TestResolveFaceSynthesizedAddonKeepsParity(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})
	// no solver options on the section, forcing the synthesize path
	sec := testSection("S1_Mid", 200, 400, 0, 1500)

	cand := model.BackboneCandidate{Diameter: 20, TopCount: 2, BottomCount: 2,
		TopArea: 628.3, BottomArea: 628.3}
	entry, ok := o.resolveFace(cand, sec, model.Bottom)
	require.True(t, ok)
	assert.Equal(t, model.Synthesized, entry.Source)
	assert.True(t, entry.HasAddon())
	assert.Equal(t, 0, entry.AddonCount%2, "even backbone requires an even addon")
	floor := 1500 * (1 - cfg.AreaTolerance())
	assert.GreaterOrEqual(t, entry.ProvidedArea, floor)
}

func TestResolveFaceFailsBeyondLayerLimit(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})
	// demand no addon can cover within the layer cap in a 70mm width
	sec := testSection("S1_Mid", 70, 400, 0, 9000)

	cand := model.BackboneCandidate{Diameter: 16, TopCount: 2, BottomCount: 2,
		TopArea: 402, BottomArea: 402}
	entry, ok := o.resolveFace(cand, sec, model.Bottom)
	assert.False(t, ok)
	assert.Equal(t, model.Uncovered, entry.Source,
		"an uncovered face must not pass for a native match")
}

func TestBuildSolutionSkipsUncoveredFaces(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})
	g, f := span(6, 300, 300)
	in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})

	sec := testSection("S1_Mid", 200, 400, 300, 9000)
	sec.ZoneIndex = 1
	cand := model.BackboneCandidate{Diameter: 16, TopCount: 2, BottomCount: 2,
		TopArea: 402.12, BottomArea: 402.12}
	entries := map[string]model.Reinforcement{
		sec.Key(model.Top): {Key: sec.Key(model.Top), Side: model.Top, Zone: sec.Zone,
			RequiredArea: 300, ProvidedArea: 402.12, Source: model.NativeMatch},
		sec.Key(model.Bottom): {Key: sec.Key(model.Bottom), Side: model.Bottom, Zone: sec.Zone,
			RequiredArea: 9000, ProvidedArea: 402.12, Source: model.Uncovered},
	}

	sol := o.buildSolution(in, []*model.DesignSection{sec}, cand, entries, false)
	// only the covered face enters the waste accounting; the
	// uncovered face would otherwise drown it in phantom demand
	assert.InDelta(t, (402.12-300)/300*100, sol.WastePercent, 1e-9)
}

func TestFindBestSolutionsSingleSpanNoDeficit(t *testing.T) {
	cfg := testConfig(t, nil)
	in := singleSpanBeam(450, 300)
	sections := solvedBeam(t, in)

	o := NewOptimizer(cfg, model.ExternalConstraints{})
	solutions, err := o.FindBestSolutions(in, sections)
	require.NoError(t, err)
	require.NotEmpty(t, solutions)

	best := solutions[0]
	assert.True(t, best.IsValid)
	assert.GreaterOrEqual(t, float64(best.BackboneTopCount)*rebar.Area(best.BackboneDiameter), 450.0)
	assert.GreaterOrEqual(t, float64(best.BackboneBottomCount)*rebar.Area(best.BackboneDiameter), 300.0)

	for key, e := range best.Reinforcements {
		assert.False(t, e.HasAddon(), "no addon expected at %s", key)
	}
	assert.Greater(t, best.EfficiencyScore, 50.0)
	assert.LessOrEqual(t, len(solutions), cfg.MaxSolutions)
}

func TestFindBestSolutionsAreaSufficiencyEverywhere(t *testing.T) {
	cfg := testConfig(t, nil)
	g1, f1 := span(6, 700, 500)
	g2, f2 := span(5, 900, 650)
	in := beam("B1", []model.BeamGeometry{g1, g2}, []model.SpanForceResult{f1, f2})
	sections := solvedBeam(t, in)

	o := NewOptimizer(cfg, model.ExternalConstraints{})
	solutions, err := o.FindBestSolutions(in, sections)
	require.NoError(t, err)

	tol := cfg.AreaTolerance()
	for _, sol := range solutions {
		if !sol.IsValid {
			continue
		}
		for _, sec := range sections {
			for _, side := range model.Sides {
				e := sol.Reinforcements[sec.Key(side)]
				assert.GreaterOrEqual(t, e.ProvidedArea, sec.Required(side)*(1-tol),
					"%s under-reinforced in %s", sec.Key(side), sol.BackboneLabel())
			}
		}
	}
}

func TestFindBestSolutionsOversizedMidSpan(t *testing.T) {
	cfg := testConfig(t, nil)
	mk := func(bottomMid float64) (model.BeamGeometry, model.SpanForceResult) {
		g, _ := span(6, 500, 0)
		f := model.SpanForceResult{
			TopArea:    []float64{500, 300, 200, 300, 500},
			BottomArea: []float64{200, 250, bottomMid, 250, 200},
		}
		return g, f
	}
	g1, f1 := mk(300)
	g2, f2 := mk(900) // mid-span of span 2 needs triple steel
	g3, f3 := mk(300)
	in := beam("B1",
		[]model.BeamGeometry{g1, g2, g3},
		[]model.SpanForceResult{f1, f2, f3})
	sections := solvedBeam(t, in)

	o := NewOptimizer(cfg, model.ExternalConstraints{})
	solutions, err := o.FindBestSolutions(in, sections)
	require.NoError(t, err)
	require.NotEmpty(t, solutions)

	best := solutions[0]
	require.True(t, best.IsValid)
	assert.True(t, best.Reinforcements["S2_Bot_Mid"].HasAddon(),
		"tripled mid-span demand needs an addon")
	assert.False(t, best.Reinforcements["S2_Bot_Left"].HasAddon())
	assert.False(t, best.Reinforcements["S2_Bot_Right"].HasAddon())
}

func TestFindBestSolutionsRankedAndDeterministic(t *testing.T) {
	cfg := testConfig(t, nil)
	g1, f1 := span(6, 700, 500)
	g2, f2 := span(5, 900, 650)
	in := beam("B1", []model.BeamGeometry{g1, g2}, []model.SpanForceResult{f1, f2})

	run := func() []*model.ContinuousBeamSolution {
		sections := solvedBeam(t, in)
		o := NewOptimizer(cfg, model.ExternalConstraints{})
		sols, err := o.FindBestSolutions(in, sections)
		require.NoError(t, err)
		return sols
	}

	first := run()
	for i := 1; i < len(first); i++ {
		assert.GreaterOrEqual(t, first[i-1].TotalScore, first[i].TotalScore, "ranking broken")
	}
	for i := 0; i < 3; i++ {
		again := run()
		require.Equal(t, len(first), len(again), "solution count changed between runs")
		for j := range first {
			assert.Equal(t, first[j].BackboneLabel(), again[j].BackboneLabel(),
				"run %d rank %d diverged", i, j)
			assert.Equal(t, first[j].TotalScore, again[j].TotalScore)
		}
	}
}

func TestSolutionWeightAndStirrups(t *testing.T) {
	cfg := testConfig(t, nil)
	g, f := span(6, 450, 300)
	f.ShearArea = []float64{900, 500, 300, 500, 900} // mm²/m
	in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})
	sections := solvedBeam(t, in)

	o := NewOptimizer(cfg, model.ExternalConstraints{})
	solutions, err := o.FindBestSolutions(in, sections)
	require.NoError(t, err)
	best := solutions[0]

	assert.Greater(t, best.TotalWeight, 0.0)
	require.Len(t, best.Spans, 1)
	assert.Regexp(t, `^φ10@\d+$`, best.Spans[0].StirrupLabel)
	// 6m beam, 12m stock: no splices
	assert.Equal(t, 0, best.SpliceCount)
}

// supportSection builds a bare zone section for merge accounting tests.
func supportSection(spanIdx, zoneIdx int, zone model.Zone) *model.DesignSection {
	return &model.DesignSection{
		ID:        fmt.Sprintf("S%d_%s", spanIdx+1, zone),
		SpanIndex: spanIdx,
		ZoneIndex: zoneIdx,
		Zone:      zone,
	}
}

// topAddon builds a top-face entry carrying a 2-φ16 addon.
func topAddon(sec *model.DesignSection) model.Reinforcement {
	return model.Reinforcement{
		Key: sec.Key(model.Top), SpanIndex: sec.SpanIndex, Side: model.Top,
		Zone: sec.Zone, Diameter: 20, Count: 2,
		AddonDiameter: 16, AddonCount: 2, Source: model.Synthesized,
	}
}

func TestMergeAdjacentAddonsAcrossSupport(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})
	g1, f1 := span(6, 450, 300)
	g2, f2 := span(6, 450, 300)
	in := beam("B1", []model.BeamGeometry{g1, g2}, []model.SpanForceResult{f1, f2})

	s1r := supportSection(0, 2, model.ZoneRight)
	s2l := supportSection(1, 0, model.ZoneLeft)
	sections := []*model.DesignSection{s1r, s2l}
	entries := map[string]model.Reinforcement{
		s1r.Key(model.Top): topAddon(s1r),
		s2l.Key(model.Top): topAddon(s2l),
		// same-signature bottom addons never join: the merge covers
		// continuous top steel over a support only
		s1r.Key(model.Bottom): {Key: s1r.Key(model.Bottom), Side: model.Bottom,
			Zone: s1r.Zone, AddonDiameter: 16, AddonCount: 2},
		s2l.Key(model.Bottom): {Key: s2l.Key(model.Bottom), Side: model.Bottom,
			Zone: s2l.Zone, AddonDiameter: 16, AddonCount: 2},
	}

	runs := o.mergeAdjacentAddons(in, sections, entries)
	require.Len(t, runs, 1)
	assert.Equal(t, 16, runs[0].dia)
	assert.Equal(t, 2, runs[0].count)
}

func TestMergeAdjacentAddonsHonorsGap(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})

	mk := func(lengthM float64) (*model.BeamInput, []*model.DesignSection, map[string]model.Reinforcement) {
		g, f := span(lengthM, 450, 300)
		in := beam("B1", []model.BeamGeometry{g}, []model.SpanForceResult{f})
		left := supportSection(0, 0, model.ZoneLeft)
		right := supportSection(0, 2, model.ZoneRight)
		entries := map[string]model.Reinforcement{
			left.Key(model.Top):  topAddon(left),
			right.Key(model.Top): topAddon(right),
		}
		return in, []*model.DesignSection{left, right}, entries
	}

	// 6m span: 3000mm between the zone extents, far past the limit
	in, sections, entries := mk(6)
	assert.Empty(t, o.mergeAdjacentAddons(in, sections, entries))

	// 1.8m span: the 900mm gap falls under max(1000, 40·16) and the
	// two runs carry through as one bar
	in, sections, entries = mk(1.8)
	assert.Len(t, o.mergeAdjacentAddons(in, sections, entries), 1)
}

func TestDistinctAddonPenaltyNeverRewards(t *testing.T) {
	cfg := testConfig(t, nil)
	o := NewOptimizer(cfg, model.ExternalConstraints{})
	g1, f1 := span(6, 450, 300)
	g2, f2 := span(6, 450, 300)
	g3, f3 := span(6, 450, 300)
	in := beam("B1",
		[]model.BeamGeometry{g1, g2, g3},
		[]model.SpanForceResult{f1, f2, f3})

	// one addon signature merged over both supports: more merged runs
	// than distinct signatures
	sections := []*model.DesignSection{
		supportSection(0, 2, model.ZoneRight),
		supportSection(1, 0, model.ZoneLeft),
		supportSection(1, 2, model.ZoneRight),
		supportSection(2, 0, model.ZoneLeft),
	}
	entries := map[string]model.Reinforcement{}
	for _, sec := range sections {
		entries[sec.Key(model.Top)] = topAddon(sec)
	}
	cand := model.BackboneCandidate{Diameter: 16, TopCount: 2, BottomCount: 2,
		TopArea: 402.12, BottomArea: 402.12}

	sol := o.buildSolution(in, sections, cand, entries, false)
	// 4 backbone runs and the φ16 size penalty, zero addon penalty;
	// a negative addon tally must never turn into a reward
	assert.InDelta(t, 100-4*1.5-16*0.4, sol.ConstructabilityScore, 1e-9)
}

func TestStirrupLabel(t *testing.T) {
	cfg := testConfig(t, nil)
	// 2 legs of phi10 = 157 mm²; 900 mm²/m demand -> 174mm -> 150 module
	assert.Equal(t, "φ10@150", stirrupLabel(900, cfg))
	assert.Equal(t, "", stirrupLabel(0, cfg))
	// light demand caps at the 300mm maximum
	assert.Equal(t, "φ10@300", stirrupLabel(100, cfg))
}
