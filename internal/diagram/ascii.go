// Package diagram renders beam layouts as ASCII elevations and as
// plotted envelope images.
package diagram

import (
	"fmt"
	"strings"

	"github.com/alexiusacademia/gorebar/internal/model"
)

// spanChars is the drawn width of one span.
const spanChars = 34

// DrawElevation renders the beam elevation: one box per span with the
// zone bar labels above and below and support markers at the span ends.
func DrawElevation(in *model.BeamInput, sol *model.ContinuousBeamSolution) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("  BEAM ELEVATION\n")
	sb.WriteString("  ──────────────\n\n")

	if !sol.IsValid {
		sb.WriteString("  (no feasible design)\n")
		return sb.String()
	}

	topRow := "  TOP  "
	beamTop := "       "
	beamMid := "       "
	beamBot := "       "
	suppRow := "       "
	botRow := "  BOT  "
	stirRow := "       "

	for _, span := range sol.Spans {
		topLeft, botLeft := zoneLabel(span, model.ZoneLeft)
		topMid, botMid := zoneLabel(span, model.ZoneMid)
		topRight, botRight := zoneLabel(span, model.ZoneRight)

		topRow += labelRow(topLeft, topMid, topRight)
		botRow += labelRow(botLeft, botMid, botRight)

		beamTop += "┌" + strings.Repeat("─", spanChars-2) + "┐"
		beamMid += "│" + strings.Repeat(" ", spanChars-2) + "│"
		beamBot += "└" + strings.Repeat("─", spanChars-2) + "┘"
		suppRow += supportMarks(in, span.SpanIndex)
		stirRow += centerIn(span.StirrupLabel, spanChars)
	}

	sb.WriteString(topRow + "\n")
	sb.WriteString(beamTop + "\n")
	sb.WriteString(beamMid + "\n")
	sb.WriteString(beamBot + "\n")
	sb.WriteString(suppRow + "\n")
	sb.WriteString(botRow + "\n")
	if strings.TrimSpace(stirRow) != "" {
		sb.WriteString("\n  STIRRUPS\n")
		sb.WriteString("       " + strings.TrimPrefix(stirRow, "       ") + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Running steel: %s\n", sol.BackboneLabel()))
	return sb.String()
}

// labelRow lays the three zone labels into one span-wide row:
// left-aligned, centered, right-aligned. Later labels win on overlap.
func labelRow(left, mid, right string) string {
	row := []rune(strings.Repeat(" ", spanChars))
	place := func(s string, at int) {
		rs := []rune(s)
		if at < 0 {
			at = 0
		}
		for i, r := range rs {
			if at+i >= len(row) {
				break
			}
			row[at+i] = r
		}
	}
	place(left, 0)
	place(mid, (spanChars-runeLen(mid))/2)
	place(right, spanChars-runeLen(right))
	return string(row)
}

func runeLen(s string) int { return len([]rune(s)) }

// centerIn centers a label in a span-wide field.
func centerIn(s string, width int) string {
	pad := width - runeLen(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

// supportMarks draws the support symbols under one span box.
func supportMarks(in *model.BeamInput, spanIdx int) string {
	left, right := " ", " "
	if spanIdx < len(in.Spans) {
		if in.Spans[spanIdx].LeftSupport != model.SupportNone {
			left = "▲"
		}
		if in.Spans[spanIdx].RightSupport != model.SupportNone {
			right = "▲"
		}
	}
	return left + strings.Repeat(" ", spanChars-2) + right
}

// zoneLabel picks the top and bottom labels for one zone of a span.
func zoneLabel(span model.SpanRebarResult, zone model.Zone) (top, bot string) {
	for _, e := range span.Entries {
		if e.Zone != zone {
			continue
		}
		if e.Side == model.Top {
			top = e.Label()
		} else {
			bot = e.Label()
		}
	}
	return top, bot
}

// DrawSummaryBox frames a titled list of result lines.
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := runeLen(title)
	for _, line := range lines {
		if runeLen(line) > maxLen {
			maxLen = runeLen(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-4, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
