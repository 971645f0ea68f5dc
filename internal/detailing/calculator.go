package detailing

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
)

// Stage tracks how far a beam made it through the pipeline.
type Stage int

const (
	StageValidating Stage = iota
	StageDiscretized
	StageLocallySolved
	StageTopologyMerged
	StageGloballyOptimized
	StageDone
	StageFailed
)

// String returns the display name of the stage.
func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "Validating"
	case StageDiscretized:
		return "Discretized"
	case StageLocallySolved:
		return "LocallySolved"
	case StageTopologyMerged:
		return "TopologyMerged"
	case StageGloballyOptimized:
		return "GloballyOptimized"
	case StageDone:
		return "Done"
	default:
		return "Failed"
	}
}

// Calculator orchestrates the four pipeline stages for one beam at a
// time. Stateless across runs; safe to reuse for many beams from one
// goroutine each.
type Calculator struct {
	cfg *config.Resolved
	log *logrus.Logger
}

// NewCalculator builds a Calculator. A nil logger silences the
// pipeline.
func NewCalculator(cfg *config.Resolved, log *logrus.Logger) *Calculator {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Calculator{cfg: cfg, log: log}
}

// Run executes the full pipeline for one beam. Always returns at least
// one solution: the ranked feasible designs, or a single invalid
// solution carrying the failure diagnostic. Expected infeasibility
// never panics.
func (c *Calculator) Run(in *model.BeamInput, cons model.ExternalConstraints) []*model.ContinuousBeamSolution {
	name := ""
	if in != nil {
		name = in.Name
	}
	log := c.log.WithField("beam", name)
	stage := StageValidating

	fail := func(err error) []*model.ContinuousBeamSolution {
		log.WithField("stage", stage.String()).WithError(err).Warn("beam design failed")
		sol := model.InvalidSolution(name, "%s: %v", stage, err)
		sol.ID = uuid.NewString()
		return []*model.ContinuousBeamSolution{sol}
	}

	if err := c.validate(in); err != nil {
		return fail(err)
	}

	stage = StageDiscretized
	sections, err := NewDiscretizer(c.cfg).Discretize(in)
	if err != nil {
		return fail(err)
	}
	log.WithField("sections", len(sections)).Debug("discretized")

	stage = StageLocallySolved
	if err := NewSolver(c.cfg, cons).SolveAll(sections); err != nil {
		return fail(err)
	}
	log.Debug("local arrangements solved")

	stage = StageTopologyMerged
	if err := NewMerger(c.cfg).ApplyConstraints(sections); err != nil {
		return fail(err)
	}
	log.Debug("topology constraints applied")

	stage = StageGloballyOptimized
	solutions, err := NewOptimizer(c.cfg, cons).FindBestSolutions(in, sections)
	if err != nil {
		return fail(err)
	}
	for _, sol := range solutions {
		sol.ID = uuid.NewString()
	}
	stage = StageDone
	log.WithField("stage", stage.String()).
		WithField("solutions", len(solutions)).
		WithField("best", solutions[0].BackboneLabel()).
		Debug("beam design complete")
	return solutions
}

// validate is the fail-fast input check that runs before any stage.
func (c *Calculator) validate(in *model.BeamInput) error {
	if in == nil {
		return fmt.Errorf("nil beam input")
	}
	var result *multierror.Error
	if len(in.Spans) == 0 && len(in.Forces) == 0 {
		result = multierror.Append(result, fmt.Errorf("no span geometry and no force data"))
	}
	for i, span := range in.Spans {
		if span.LengthMM() <= 0 || span.WidthMM() <= 0 || span.HeightMM() <= 0 {
			result = multierror.Append(result,
				fmt.Errorf("span %d has non-positive dimensions (%.0fx%.0fx%.0f mm)",
					i+1, span.LengthMM(), span.WidthMM(), span.HeightMM()))
		}
	}
	for i, f := range in.Forces {
		for _, arr := range [][]float64{f.TopArea, f.BottomArea, f.TorsionArea, f.ShearArea} {
			for _, v := range arr {
				if v < 0 {
					result = multierror.Append(result,
						fmt.Errorf("span %d has negative steel area demand %.1f", i+1, v))
					break
				}
			}
		}
	}
	if len(c.cfg.Diameters) == 0 {
		result = multierror.Append(result, fmt.Errorf("empty diameter inventory"))
	}
	return result.ErrorOrNil()
}
