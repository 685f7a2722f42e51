// Package project computes whole-range trend projections: a mid regression
// line over a data row plus envelope lines fitted to the points above and
// below it, and the calendar dates where those lines cross zero.
package project

import (
	"fmt"
	"time"

	"github.com/expendo-io/expendo/core/segment"
	"github.com/expendo-io/expendo/schema"
)

// MinHistory is the default minimum number of dates required before a
// projection is attempted. One week of retrospective data is the smallest
// range where a trend line means anything.
const MinHistory = 7

// clampSlope is the minimum slope magnitude enforced by a clamp direction,
// so a clamped line always makes progress toward zero.
const clampSlope = 0.001

// ClampDirection constrains the sign of projected slopes.
type ClampDirection int

const (
	// ClampNone leaves slopes as fitted.
	ClampNone ClampDirection = iota
	// ClampDown forces slopes non-positive, for burn-down style rows where
	// the remaining work can only shrink.
	ClampDown
	// ClampUp forces slopes non-negative, for cumulative rows like spent.
	ClampUp
)

// clampDirectionNames maps ClampDirection to their string representations.
var clampDirectionNames = map[ClampDirection]string{
	ClampNone: "none",
	ClampDown: "down",
	ClampUp:   "up",
}

// String returns the string representation of the clamp direction.
func (d ClampDirection) String() string {
	if name, exists := clampDirectionNames[d]; exists {
		return name
	}
	return "unknown"
}

// ClampDirectionFromString returns the ClampDirection for a given string tag.
func ClampDirectionFromString(name string) (ClampDirection, error) {
	switch name {
	case "none":
		return ClampNone, nil
	case "down":
		return ClampDown, nil
	case "up":
		return ClampUp, nil
	default:
		return 0, fmt.Errorf("unknown clamp direction %q: must be none, down, or up", name)
	}
}

// Options tunes a projection run.
type Options struct {
	// Start drops dates before it from the regression range when non-zero.
	Start time.Time
	// Clamp constrains the sign of the projected slopes.
	Clamp ClampDirection
	// MinHistory overrides the minimum number of dates when positive.
	MinHistory int
}

// Trends fits the mid/min/max regression lines for one row of a series set
// and projects their zero-crossing dates.
//
// The mid line is the least-squares fit over the full (filtered) range. The
// max line is fitted to the points strictly above the mid line, the min line
// to the points strictly below it; when fewer than two points fall on a side,
// that envelope falls back to the mid coefficients instead of failing, which
// keeps the projector usable on small or monotone rows.
func Trends(set *schema.SeriesSet, row string, opts Options) (schema.TrendProjection, error) {
	var proj schema.TrendProjection

	values, ok := set.Row(row)
	if !ok {
		return proj, fmt.Errorf("%q not present in data", row)
	}

	dates := set.Dates
	if !opts.Start.IsZero() {
		for len(dates) > 0 && dates[0].Before(opts.Start) {
			dates = dates[1:]
			values = values[1:]
		}
	}

	minHistory := opts.MinHistory
	if minHistory <= 0 {
		minHistory = MinHistory
	}
	if len(dates) < minHistory {
		return proj, fmt.Errorf("not enough data for projection: at least %d days retro required, have %d", minHistory, len(dates))
	}

	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	midA, midB, err := segment.Linreg(xs, values)
	if err != nil {
		return proj, fmt.Errorf("mid regression failed: %w", err)
	}
	mid := schema.TrendLine{A: midA, B: midB}

	maxLine := envelopeFit(xs, values, mid, true)
	minLine := envelopeFit(xs, values, mid, false)

	// The envelopes inherit the steeper (shallower) of their own slope and
	// the mid slope so they bracket the mid projection.
	minLine.A = min(mid.A, minLine.A)
	maxLine.A = max(mid.A, maxLine.A)

	switch opts.Clamp {
	case ClampDown:
		mid.A = min(mid.A, -clampSlope)
		minLine.A = min(minLine.A, -clampSlope)
		maxLine.A = min(max(mid.A, maxLine.A), -clampSlope)
	case ClampUp:
		mid.A = max(mid.A, clampSlope)
		minLine.A = max(minLine.A, clampSlope)
		maxLine.A = max(maxLine.A, clampSlope)
	}

	step := time.Duration(24) * time.Hour
	if len(dates) >= 2 {
		step = dates[1].Sub(dates[0])
	}

	proj = schema.TrendProjection{
		Name:    row,
		Start:   dates[0],
		End:     dates[len(dates)-1],
		Mid:     mid,
		Min:     minLine,
		Max:     maxLine,
		MidZero: zeroCross(mid, dates[0], step),
		MinZero: zeroCross(minLine, dates[0], step),
		MaxZero: zeroCross(maxLine, dates[0], step),
	}
	return proj, nil
}

// envelopeFit regresses over the points strictly above (or below) the mid
// line, falling back to the mid coefficients when fewer than two such points
// exist or the side fit itself degenerates.
func envelopeFit(xs, values []float64, mid schema.TrendLine, above bool) schema.TrendLine {
	var sideX, sideY []float64
	for i, v := range values {
		m := mid.Eval(xs[i])
		if (above && v > m) || (!above && v < m) {
			sideX = append(sideX, xs[i])
			sideY = append(sideY, v)
		}
	}
	if len(sideX) < 2 {
		return mid
	}
	a, b, err := segment.Linreg(sideX, sideY)
	if err != nil {
		return mid
	}
	return schema.TrendLine{A: a, B: b}
}

// zeroCross maps a line's x-intercept back to a calendar date. Lines that are
// flat (|a| <= 1e-10) or whose crossing lies before the range start have no
// meaningful projection and yield nil.
func zeroCross(line schema.TrendLine, start time.Time, step time.Duration) *time.Time {
	if line.A <= 1e-10 && line.A >= -1e-10 {
		return nil
	}
	x0 := -line.B / line.A
	if x0 < 0 {
		return nil
	}
	when := start.Add(time.Duration(x0 * float64(step)))
	return &when
}
