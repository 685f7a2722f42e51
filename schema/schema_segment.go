package schema

import "time"

// Segment is one linear piece of a segmented series. X coordinates are
// 0-based indices into the source series; the caller maps them back to
// calendar dates. D0 is the x-intercept of the fitted line, or -1 when the
// segment is flat (|slope| below tolerance) and never crosses zero.
type Segment struct {
	X1     int     `json:"x1"`
	X2     int     `json:"x2"`
	A      float64 `json:"a"` // slope per index step
	B      float64 `json:"b"` // intercept at index 0
	Y1     float64 `json:"y1"`
	Y2     float64 `json:"y2"`
	D0     float64 `json:"d0"`
	Lambda float64 `json:"lambda"`
}

// Flat reports whether the segment slope is below the zero-crossing
// tolerance, i.e. D0 carries the -1 sentinel instead of an x-intercept.
func (s Segment) Flat() bool {
	return s.A <= 1e-10 && s.A >= -1e-10
}

// Length returns the number of series points the segment covers.
func (s Segment) Length() int {
	return s.X2 - s.X1 + 1
}

// CategorySegments holds the segmentation of one category row.
type CategorySegments struct {
	Category string     `json:"category"`
	Kind     SeriesKind `json:"kind"`
	Unit     string     `json:"unit"`
	Points   int        `json:"points"`
	Lambda   float64    `json:"lambda"`
	Segments []Segment  `json:"segments"`
}

// TrendsResult is the output of a segmentation run over a series set.
type TrendsResult struct {
	Dates []time.Time        `json:"dates"`
	Rows  []CategorySegments `json:"rows"`
}

// TrendLine holds the coefficients of one regression line y = a*x + b,
// with x counted as 0-based date index.
type TrendLine struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Eval returns the line value at index x.
func (l TrendLine) Eval(x float64) float64 {
	return l.A*x + l.B
}

// TrendProjection is the output of the trend projector for one data row:
// a mid regression over the full range plus envelope lines fitted to the
// points above and below it. Zero-crossing dates are nil when a line never
// reaches zero within meaningful time (flat or rising line).
type TrendProjection struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Mid TrendLine `json:"mid"`
	Min TrendLine `json:"min"`
	Max TrendLine `json:"max"`

	MidZero *time.Time `json:"mid_zero,omitempty"`
	MinZero *time.Time `json:"min_zero,omitempty"`
	MaxZero *time.Time `json:"max_zero,omitempty"`
}
