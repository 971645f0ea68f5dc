package detailing

import (
	"math"

	"github.com/alexiusacademia/gorebar/internal/model"
)

// Scoring weights for a single arrangement. The score starts at 100
// and accrues penalties and rewards, clamped to [0,100].
const (
	wasteRatioPenalty   = 80.0 // per unit of provided/required beyond 1
	extraLayerPenalty   = 8.0  // per layer past the first
	crowdingPenalty     = 3.0  // per bar past the per-layer cap
	wasteBarPenalty     = 2.0  // per bar past the raw need
	denseSpacingReward  = 8.0  // spacing in the denser half of the band
	sparseSpacingReward = 4.0  // spacing in the sparser half
	overSparsePenalty   = 6.0  // spacing beyond the configured maximum
	singleDiaReward     = 5.0
	symmetricReward     = 5.0
	preferredDiaReward  = 6.0
	fewerBarsPenalty    = 1.5 // per bar when fewer bars are preferred
)

// score rates one arrangement for one face. Pure function of the
// arrangement, the demand and the configuration.
func (s *Solver) score(a model.SectionArrangement, req float64) float64 {
	score := 100.0

	// area waste
	if req > 0 {
		score -= (a.ProvidedArea/req - 1) * wasteRatioPenalty
	}
	score -= float64(a.Layers-1) * extraLayerPenalty
	if over := a.TotalBars() - s.cfg.MaxBarsPerLayer; over > 0 {
		score -= float64(over) * crowdingPenalty
	}
	score -= float64(a.WasteBars) * wasteBarPenalty

	// spacing inside the optimal density band, denser half favored
	mid := (s.cfg.MinClearSpacing + s.cfg.MaxClearSpacing) / 2
	switch {
	case a.ClearSpacing >= s.cfg.MinClearSpacing && a.ClearSpacing <= mid:
		score += denseSpacingReward
	case a.ClearSpacing > mid && a.ClearSpacing <= s.cfg.MaxClearSpacing:
		score += sparseSpacingReward
	case a.ClearSpacing > s.cfg.MaxClearSpacing:
		score -= overSparsePenalty
	}

	if s.cfg.PreferSingleDiameter && !a.IsMixed() {
		score += singleDiaReward
	}
	if s.cfg.PreferSymmetric && a.Count%2 == 0 {
		score += symmetricReward
	}
	if dia := s.preferredDiameter(); dia != 0 && a.Diameter == dia {
		score += preferredDiaReward
	}
	if s.cfg.PreferFewerBars {
		score -= float64(a.TotalBars()) * fewerBarsPenalty
	}

	return clampScore(score)
}

// preferredDiameter resolves the preference, caller constraints first.
func (s *Solver) preferredDiameter() int {
	if s.cons.PreferredDiameter != 0 {
		return s.cons.PreferredDiameter
	}
	return s.cfg.PreferredDiameter
}

// Whole-beam scoring weights.
const (
	backboneBarPenalty  = 1.5 // per backbone run
	diameterSizePenalty = 0.4 // per mm of backbone diameter
	asymmetryPenalty    = 3.0 // per bar of top/bottom count difference
	distinctAddonWeight = 4.0 // per distinct addon configuration
	failedFacePenalty   = 10.0
	nativeBonusMax      = 10.0
)

// scoreSolution rates one whole-beam solution: efficiency from the
// beam-wide waste, constructability from weighted penalties, plus a
// native-match bonus for backbones that needed the fewest addons.
func (o *Optimizer) scoreSolution(sol *model.ContinuousBeamSolution, cand model.BackboneCandidate, totalFaces, natives, distinctAddons int) {
	sol.EfficiencyScore = clampScore(100 - sol.WastePercent)

	constructability := 100.0
	constructability -= float64(cand.TopCount+cand.BottomCount) * backboneBarPenalty
	constructability -= float64(cand.Diameter) * diameterSizePenalty
	constructability -= math.Abs(float64(cand.TopCount-cand.BottomCount)) * asymmetryPenalty
	constructability -= float64(distinctAddons) * distinctAddonWeight
	constructability -= float64(len(cand.FailedSections)) * failedFacePenalty
	sol.ConstructabilityScore = clampScore(constructability)

	nativeBonus := 0.0
	if totalFaces > 0 {
		nativeBonus = float64(natives) / float64(totalFaces) * nativeBonusMax
	}

	w := o.cfg.EfficiencyWeight
	sol.TotalScore = clampScore(w*sol.EfficiencyScore + (1-w)*sol.ConstructabilityScore + nativeBonus)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
