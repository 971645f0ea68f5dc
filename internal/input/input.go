// Package input parses beam job files. A job file is a TOML document
// with one [[spans]] table per span, an optional [settings] table and
// an optional [constraints] table.
package input

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"fortio.org/safecast"
	"github.com/hashicorp/go-multierror"

	"github.com/alexiusacademia/gorebar/internal/config"
	"github.com/alexiusacademia/gorebar/internal/model"
	"github.com/alexiusacademia/gorebar/internal/units"
)

// Job is one fully parsed beam job: the beam itself plus the
// settings and constraints declared alongside it.
type Job struct {
	Beam        *model.BeamInput
	Settings    *config.Settings
	Constraints model.ExternalConstraints
}

type spanForces struct {
	Top     []float64 `toml:"top"`
	Bottom  []float64 `toml:"bottom"`
	Torsion []float64 `toml:"torsion"`
	Shear   []float64 `toml:"shear"`
}

type spanTable struct {
	Length       float64    `toml:"length"`
	Width        float64    `toml:"width"`
	Height       float64    `toml:"height"`
	LeftSupport  string     `toml:"left_support"`
	RightSupport string     `toml:"right_support"`
	Forces       spanForces `toml:"forces"`
}

// TOML integers arrive as int64; they are narrowed after decoding.
type constraintTable struct {
	ForcedDiameter    int64   `toml:"forced_diameter"`
	ForcedTopCount    int64   `toml:"forced_top_count"`
	ForcedBottomCount int64   `toml:"forced_bottom_count"`
	PreferredDiameter int64   `toml:"preferred_diameter"`
	AllowedDiameters  []int64 `toml:"allowed_diameters"`
}

type jobFile struct {
	Name        string          `toml:"name"`
	Unit        string          `toml:"unit"`
	Spans       []spanTable     `toml:"spans"`
	Settings    config.Settings `toml:"settings"`
	Constraints constraintTable `toml:"constraints"`
}

// LoadJob parses and validates a beam job file.
func LoadJob(path string) (*Job, error) {
	var raw jobFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	job, err := buildJob(&raw, meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return job, nil
}

// ParseJob parses an in-memory job document. The name argument is used
// in error messages and as the beam name fallback.
func ParseJob(name, doc string) (*Job, error) {
	var raw jobFile
	meta, err := toml.Decode(doc, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	if raw.Name == "" {
		raw.Name = name
	}
	job, err := buildJob(&raw, meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return job, nil
}

func buildJob(raw *jobFile, meta toml.MetaData) (*Job, error) {
	var result *multierror.Error

	if strings.TrimSpace(raw.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("missing beam name"))
	}
	if len(raw.Spans) == 0 {
		result = multierror.Append(result, fmt.Errorf("no [[spans]] declared"))
	}

	unit := units.Unknown
	if meta.IsDefined("unit") {
		u, err := units.ParseUnit(raw.Unit)
		if err != nil {
			result = multierror.Append(result, err)
		}
		unit = u
	}

	beam := &model.BeamInput{Name: raw.Name}
	for i, sp := range raw.Spans {
		// Unknown leaves each dimension to the per-value magnitude
		// heuristic in the units package.
		g := model.BeamGeometry{
			Length: sp.Length,
			Width:  sp.Width,
			Height: sp.Height,
			Unit:   unit,
		}
		if sp.Length <= 0 || sp.Width <= 0 || sp.Height <= 0 {
			result = multierror.Append(result,
				fmt.Errorf("span %d: dimensions must be positive (%v x %v x %v)", i+1, sp.Length, sp.Width, sp.Height))
		}
		g.LeftSupport = parseSupport(sp.LeftSupport, i+1, "left", &result)
		g.RightSupport = parseSupport(sp.RightSupport, i+1, "right", &result)
		beam.Spans = append(beam.Spans, g)

		if len(sp.Forces.Top) == 0 && len(sp.Forces.Bottom) == 0 {
			result = multierror.Append(result, fmt.Errorf("span %d: no force envelope", i+1))
		}
		beam.Forces = append(beam.Forces, model.SpanForceResult{
			TopArea:     sp.Forces.Top,
			BottomArea:  sp.Forces.Bottom,
			TorsionArea: sp.Forces.Torsion,
			ShearArea:   sp.Forces.Shear,
		})
	}

	cons, err := buildConstraints(&raw.Constraints)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	job := &Job{Beam: beam, Constraints: cons}
	if meta.IsDefined("settings") {
		s := raw.Settings
		job.Settings = &s
	}
	return job, nil
}

func parseSupport(s string, span int, side string, result **multierror.Error) model.SupportType {
	if strings.TrimSpace(s) == "" {
		return model.SupportNone
	}
	st, err := model.ParseSupportType(s)
	if err != nil {
		*result = multierror.Append(*result, fmt.Errorf("span %d: %s support: %w", span, side, err))
		return model.SupportNone
	}
	return st
}

func buildConstraints(raw *constraintTable) (model.ExternalConstraints, error) {
	var cons model.ExternalConstraints
	var result *multierror.Error

	narrow := func(field string, v int64) int {
		n, err := safecast.Conv[int](v)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("constraint %s: %w", field, err))
			return 0
		}
		if n < 0 {
			result = multierror.Append(result, fmt.Errorf("constraint %s: must be non-negative, got %d", field, n))
			return 0
		}
		return n
	}

	cons.ForcedDiameter = narrow("forced_diameter", raw.ForcedDiameter)
	cons.ForcedTopCount = narrow("forced_top_count", raw.ForcedTopCount)
	cons.ForcedBottomCount = narrow("forced_bottom_count", raw.ForcedBottomCount)
	cons.PreferredDiameter = narrow("preferred_diameter", raw.PreferredDiameter)
	for _, d := range raw.AllowedDiameters {
		cons.AllowedDiameters = append(cons.AllowedDiameters, narrow("allowed_diameters", d))
	}
	return cons, result.ErrorOrNil()
}
