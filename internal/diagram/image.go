package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/alexiusacademia/gorebar/internal/model"
)

// EnvelopeData pairs the analysis demand with the designed layout for
// plotting. Zone ratios come from the resolved settings so the provided
// steps line up with the discretized zones.
type EnvelopeData struct {
	Input    *model.BeamInput
	Solution *model.ContinuousBeamSolution

	LeftZoneRatio  float64
	RightZoneRatio float64
	SafetyFactor   float64
}

// ExportEnvelopeDiagram plots required vs provided steel area along the
// beam for both faces and saves it to an image file. The format follows
// the file extension; unknown extensions fall back to PNG.
func ExportEnvelopeDiagram(data EnvelopeData, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Steel Area Envelope - %s", data.Solution.BeamName)
	p.X.Label.Text = "Position (m)"
	p.Y.Label.Text = "Steel area (mm²), top plotted negative"
	p.Legend.Top = true

	reqTop, reqBot := requiredSeries(data)
	provTop, provBot := providedSeries(data)

	series := []struct {
		name   string
		pts    plotter.XYs
		col    color.RGBA
		dashed bool
	}{
		{"required top", reqTop, color.RGBA{R: 200, A: 255}, true},
		{"required bottom", reqBot, color.RGBA{R: 200, A: 255}, true},
		{"provided top", provTop, color.RGBA{B: 180, A: 255}, false},
		{"provided bottom", provBot, color.RGBA{B: 180, A: 255}, false},
	}
	for i, s := range series {
		if len(s.pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = s.col
		if s.dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		p.Add(line)
		// one legend entry per face pair
		if i%2 == 0 {
			p.Legend.Add(s.name[:len(s.name)-4], line)
		}
	}

	// Zero reference line
	zero, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: beamLengthM(data.Input), Y: 0},
	})
	if err != nil {
		return err
	}
	zero.LineStyle.Color = color.Gray{Y: 128}
	zero.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zero)

	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	width := 10 * vg.Inch
	height := 6 * vg.Inch
	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

func beamLengthM(in *model.BeamInput) float64 {
	var total float64
	for _, g := range in.Spans {
		total += g.LengthMM()
	}
	return total / 1000
}

// requiredSeries samples the safety-factored demand at every envelope
// station. Top areas are negated to hang below the axis like a moment
// diagram.
func requiredSeries(data EnvelopeData) (top, bot plotter.XYs) {
	sf := data.SafetyFactor
	if sf <= 0 {
		sf = 1
	}
	var originMM float64
	for i, g := range data.Input.Spans {
		if i >= len(data.Input.Forces) {
			break
		}
		f := data.Input.Forces[i]
		n := f.Stations()
		if n < 2 {
			continue
		}
		step := g.LengthMM() / float64(n-1)
		for j := 0; j < n; j++ {
			x := (originMM + float64(j)*step) / 1000
			if j < len(f.TopArea) {
				top = append(top, plotter.XY{X: x, Y: -f.TopArea[j] * sf})
			}
			if j < len(f.BottomArea) {
				bot = append(bot, plotter.XY{X: x, Y: f.BottomArea[j] * sf})
			}
		}
		originMM += g.LengthMM()
	}
	return top, bot
}

// providedSeries builds the step lines of provided area per zone.
func providedSeries(data EnvelopeData) (top, bot plotter.XYs) {
	sol := data.Solution
	if sol == nil || !sol.IsValid {
		return nil, nil
	}
	l := data.LeftZoneRatio
	r := data.RightZoneRatio
	if l <= 0 {
		l = 0.25
	}
	if r <= 0 {
		r = 0.25
	}

	var originMM float64
	for i, g := range data.Input.Spans {
		length := g.LengthMM()
		breaks := []struct {
			zone model.Zone
			from float64
			to   float64
		}{
			{model.ZoneLeft, 0, l * length},
			{model.ZoneMid, l * length, (1 - r) * length},
			{model.ZoneRight, (1 - r) * length, length},
		}
		for _, b := range breaks {
			for _, side := range model.Sides {
				key := fmt.Sprintf("S%d_%s_%s", i+1, side, b.zone)
				re, ok := sol.Reinforcements[key]
				if !ok {
					continue
				}
				y := re.ProvidedArea
				if side == model.Top {
					y = -y
				}
				x0 := (originMM + b.from) / 1000
				x1 := (originMM + b.to) / 1000
				if side == model.Top {
					top = append(top, plotter.XY{X: x0, Y: y}, plotter.XY{X: x1, Y: y})
				} else {
					bot = append(bot, plotter.XY{X: x0, Y: y}, plotter.XY{X: x1, Y: y})
				}
			}
		}
		originMM += length
	}
	return top, bot
}
