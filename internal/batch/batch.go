// Package batch runs the detailing pipeline over a directory of beam
// job files in parallel.
package batch

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/detailing"
	"github.com/alexiusacademia/gorebar/internal/input"
	"github.com/alexiusacademia/gorebar/internal/model"
)

// BeamResult is the outcome for one job file. Parse and config errors
// land in Err; an infeasible beam still yields its diagnostic
// solution.
type BeamResult struct {
	Path      string
	RunID     string
	Job       *input.Job
	Solutions []*model.ContinuousBeamSolution
	Err       error
	Elapsed   time.Duration
}

// Valid reports whether the beam produced at least one feasible design.
func (r BeamResult) Valid() bool {
	return r.Err == nil && len(r.Solutions) > 0 && r.Solutions[0].IsValid
}

// Runner executes jobs with a shared base configuration. Job files may
// carry their own [settings] table, which replaces the base settings
// for that beam.
type Runner struct {
	base *config.Settings
	log  *logrus.Logger
	jobs int
}

// NewRunner builds a Runner. jobs <= 0 means one worker per CPU.
func NewRunner(base *config.Settings, log *logrus.Logger, jobs int) *Runner {
	if base == nil {
		base = &config.Settings{}
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Runner{base: base, log: log, jobs: jobs}
}

// listJobFiles returns the sorted *.toml files under dir.
func listJobFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".toml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Deterministic order regardless of walk internals
	sort.Strings(files)
	return files, nil
}

// RunDir designs every job file under dir in parallel. Per-beam
// failures are recorded in their result; only cancellation aborts the
// whole batch.
func (r *Runner) RunDir(ctx context.Context, dir string) ([]BeamResult, error) {
	files, err := listJobFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	workers := r.jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(files) {
		workers = len(files)
	}

	// Each goroutine owns its own index; no mutex needed.
	results := make([]BeamResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.runOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// RunFiles designs an explicit list of job files in parallel.
func (r *Runner) RunFiles(ctx context.Context, files []string) ([]BeamResult, error) {
	ordered := append([]string(nil), files...)
	sort.Strings(ordered)
	if len(ordered) == 0 {
		return nil, nil
	}

	workers := r.jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(ordered) {
		workers = len(ordered)
	}

	results := make([]BeamResult, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range ordered {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.runOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) runOne(path string) BeamResult {
	start := time.Now()
	res := BeamResult{Path: path, RunID: uuid.NewString()}
	log := r.log.WithField("job", filepath.Base(path)).WithField("run", res.RunID)

	job, err := input.LoadJob(path)
	if err != nil {
		log.WithError(err).Error("job rejected")
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}
	res.Job = job

	settings := r.base
	if job.Settings != nil {
		settings = job.Settings
	}
	cfg, err := config.Resolve(settings)
	if err != nil {
		log.WithError(err).Error("settings rejected")
		res.Err = err
		res.Elapsed = time.Since(start)
		return res
	}

	calc := detailing.NewCalculator(cfg, r.log)
	res.Solutions = calc.Run(job.Beam, job.Constraints)
	res.Elapsed = time.Since(start)

	if res.Valid() {
		log.WithField("best", res.Solutions[0].BackboneLabel()).
			WithField("elapsed", res.Elapsed.Round(time.Millisecond)).
			Info("beam designed")
	} else if len(res.Solutions) > 0 {
		log.WithField("reason", res.Solutions[0].Message).Warn("beam infeasible")
	}
	return res
}
