package detailing

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
)

// positionTolerance is the absolute distance (mm) under which two
// support sections count as the same physical support.
const positionTolerance = 1.0

// alignmentPenalty is taken off an arrangement whose bar count parity
// mismatches the governing option on the opposite face when vertical
// alignment is preferred.
const alignmentPenalty = 4.0

// Merger forces sections on opposite sides of a shared support to
// agree on a single governing arrangement list per face.
type Merger struct {
	cfg *config.Resolved
}

// NewMerger builds a Merger over a resolved configuration.
func NewMerger(cfg *config.Resolved) *Merger {
	return &Merger{cfg: cfg}
}

// supportPair links the right-end section of span i with the
// left-start section of span i+1 at the same physical support.
type supportPair struct {
	left  *model.DesignSection // right end of span i
	right *model.DesignSection // left start of span i+1
}

// ApplyConstraints merges the option lists of every support pair and
// applies the configuration-gated stirrup and alignment rules. Returns
// an error when any pair cannot agree on an arrangement for a face
// with non-negligible demand.
func (m *Merger) ApplyConstraints(sections []*model.DesignSection) error {
	var result *multierror.Error

	for _, pair := range findSupportPairs(sections) {
		for _, side := range model.Sides {
			if err := m.mergePair(pair, side); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	if m.cfg.EnforceStirrupLegs {
		for _, sec := range sections {
			m.pruneByStirrupLegs(sec)
		}
	}
	if m.cfg.PreferVerticalAlignment {
		for _, sec := range sections {
			m.penalizeMisalignment(sec)
		}
	}

	for _, sec := range sections {
		for _, side := range model.Sides {
			if len(sec.Options(side)) == 0 && sec.Required(side) > negligibleArea {
				result = multierror.Append(result,
					fmt.Errorf("section %s %s left without options after merge", sec.ID, side))
			}
		}
	}
	return result.ErrorOrNil()
}

// findSupportPairs walks the ordered section list and pairs the
// right-end support of each span with the left-start support of the
// next span when they sit at the same absolute position.
func findSupportPairs(sections []*model.DesignSection) []supportPair {
	var pairs []supportPair
	for _, a := range sections {
		if !a.IsRightSupport || a.Type != model.Support {
			continue
		}
		for _, b := range sections {
			if !b.IsLeftSupport || b.Type != model.Support {
				continue
			}
			if b.SpanIndex != a.SpanIndex+1 {
				continue
			}
			if math.Abs(b.Position-a.Position) > positionTolerance {
				continue
			}
			pairs = append(pairs, supportPair{left: a, right: b})
		}
	}
	return pairs
}

// mergePair computes the shared governing list for one face of one
// support pair and clones it back onto both sections.
func (m *Merger) mergePair(p supportPair, side model.Side) error {
	reqL := p.left.Required(side)
	reqR := p.right.Required(side)
	governing := math.Max(reqL, reqR)
	tol := m.cfg.AreaTolerance()
	floor := governing * (1 - tol)

	shared := m.intersect(p.left.Options(side), p.right.Options(side), floor)

	if len(shared) == 0 {
		// no common signature: fall back to any arrangement from
		// either list that already meets the governing requirement,
		// smallest first
		shared = m.meetingGoverning(p.left.Options(side), p.right.Options(side), floor)
	}

	if len(shared) == 0 {
		if governing <= negligibleArea {
			empty := []model.SectionArrangement{model.EmptyArrangement()}
			p.left.SetOptions(side, model.CloneAll(empty))
			p.right.SetOptions(side, model.CloneAll(empty))
			return nil
		}
		return fmt.Errorf("support %s/%s %s: no arrangement meets governing %.0f mm²",
			p.left.ID, p.right.ID, side, governing)
	}

	rankArrangements(shared)
	p.left.SetOptions(side, model.CloneAll(shared))
	p.right.SetOptions(side, model.CloneAll(shared))
	return nil
}

// intersect keeps the arrangements present in both lists under the
// configured bar-count/layer tolerance, picking the larger of each
// matched pair, filtered to the governing floor.
func (m *Merger) intersect(left, right []model.SectionArrangement, floor float64) []model.SectionArrangement {
	var out []model.SectionArrangement
	seen := map[string]bool{}
	for _, la := range left {
		for _, ra := range right {
			if la.Diameter != ra.Diameter {
				continue
			}
			if abs(la.Count-ra.Count) > m.cfg.MergeBarCountTolerance {
				continue
			}
			if abs(la.Layers-ra.Layers) > m.cfg.MergeLayerTolerance {
				continue
			}
			pick := la
			if ra.ProvidedArea > la.ProvidedArea {
				pick = ra
			}
			if pick.ProvidedArea < floor {
				continue
			}
			if seen[pick.Key()] {
				continue
			}
			seen[pick.Key()] = true
			out = append(out, pick.Clone())
		}
	}
	return out
}

// meetingGoverning collects, from both lists, the arrangements whose
// area already meets the governing requirement, smallest area first.
func (m *Merger) meetingGoverning(left, right []model.SectionArrangement, floor float64) []model.SectionArrangement {
	var out []model.SectionArrangement
	seen := map[string]bool{}
	for _, list := range [][]model.SectionArrangement{left, right} {
		for _, a := range list {
			if a.ProvidedArea < floor || seen[a.Key()] {
				continue
			}
			seen[a.Key()] = true
			out = append(out, a.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProvidedArea != out[j].ProvidedArea {
			return out[i].ProvidedArea < out[j].ProvidedArea
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// pruneByStirrupLegs drops arrangements whose widest layer needs more
// stirrup legs than the configuration provides. Never empties a list:
// when nothing survives, the unpruned list stands.
func (m *Merger) pruneByStirrupLegs(sec *model.DesignSection) {
	for _, side := range model.Sides {
		opts := sec.Options(side)
		kept := make([]model.SectionArrangement, 0, len(opts))
		for _, a := range opts {
			if m.cfg.RequiredLegs(widestLayer(a)) <= m.cfg.MaxStirrupLegs {
				kept = append(kept, a)
			}
		}
		if len(kept) > 0 && len(kept) < len(opts) {
			sec.SetOptions(side, kept)
		}
	}
}

// penalizeMisalignment applies a score penalty (no pruning) to
// arrangements whose bar count parity differs from the best option on
// the opposite face, so vertically aligned top/bottom pairs rank
// higher.
func (m *Merger) penalizeMisalignment(sec *model.DesignSection) {
	bestParity := func(side model.Side) (int, bool) {
		opts := sec.Options(side)
		if len(opts) == 0 || opts[0].IsEmpty() {
			return 0, false
		}
		return opts[0].Count % 2, true
	}

	topParity, topOK := bestParity(model.Top)
	botParity, botOK := bestParity(model.Bottom)

	apply := func(side model.Side, parity int, ok bool) {
		if !ok {
			return
		}
		opts := sec.Options(side)
		changed := false
		for i := range opts {
			if !opts[i].IsEmpty() && opts[i].Count%2 != parity {
				opts[i].Score = clampScore(opts[i].Score - alignmentPenalty)
				changed = true
			}
		}
		if changed {
			rankArrangements(opts)
		}
	}

	// each face ranks against the other's pre-penalty best
	apply(model.Top, botParity, botOK)
	apply(model.Bottom, topParity, topOK)
}

func widestLayer(a model.SectionArrangement) int {
	max := 0
	for _, n := range a.BarsPerLayer {
		if n > max {
			max = n
		}
	}
	if max == 0 {
		max = a.TotalBars()
	}
	return max
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
