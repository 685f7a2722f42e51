// Package parquet provides data structures and functions for exporting
// analytics results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"time"

	"github.com/expendo-io/expendo/schema"
	"github.com/parquet-go/parquet-go"
)

// SeriesPoint is one cell of a date-indexed metric table. This struct maps
// to the expendo_series_points warehouse table.
type SeriesPoint struct {
	// Date is the grid date of the sample
	Date time.Time `parquet:"date,snappy"`

	// Category is the row label, e.g. "estimate: MYQUEUE"
	Category string `parquet:"category,snappy"`

	// Kind is the metric kind (estimate, spent, original, burn)
	Kind string `parquet:"kind,snappy"`

	// Value is the metric value in hours, or an hours-per-period delta
	Value float64 `parquet:"value,snappy"`

	// Unit is "hrs" or "hrs/dt"
	Unit string `parquet:"unit,snappy"`
}

// SegmentRecord is one linear piece of a segmented category row. This struct
// maps to the expendo_trend_segments warehouse table.
type SegmentRecord struct {
	// Category is the row label the segment belongs to
	Category string `parquet:"category,snappy"`

	// Kind is the metric kind of the source series
	Kind string `parquet:"kind,snappy"`

	// StartDate and EndDate bound the segment on the date grid
	StartDate time.Time `parquet:"start_date,snappy"`
	EndDate   time.Time `parquet:"end_date,snappy"`

	// Slope and Intercept describe the fitted line y = slope*x + intercept
	// with x counted as 0-based grid index
	Slope     float64 `parquet:"slope,snappy"`
	Intercept float64 `parquet:"intercept,snappy"`

	// StartValue and EndValue are the fitted line values at the bounds
	StartValue float64 `parquet:"start_value,snappy"`
	EndValue   float64 `parquet:"end_value,snappy"`

	// ZeroDate is when the fitted line crosses zero (nullable for flat lines
	// and lines that never reach zero going forward)
	ZeroDate *time.Time `parquet:"zero_date,optional,snappy"`

	// Lambda is the merge penalty used for this segmentation run
	Lambda float64 `parquet:"lambda,snappy"`
}

// ProjectionRecord is one projected trend line of a category row. This struct
// maps to the expendo_projections warehouse table.
type ProjectionRecord struct {
	// Category is the projected row label
	Category string `parquet:"category,snappy"`

	// Line distinguishes the mid regression from its min/max envelope
	Line string `parquet:"line,snappy"`

	// StartDate and EndDate bound the history window the fit used
	StartDate time.Time `parquet:"start_date,snappy"`
	EndDate   time.Time `parquet:"end_date,snappy"`

	// Slope and Intercept describe the fitted line
	Slope     float64 `parquet:"slope,snappy"`
	Intercept float64 `parquet:"intercept,snappy"`

	// ZeroDate is the forecast completion date (nullable when the line
	// never reaches zero)
	ZeroDate *time.Time `parquet:"zero_date,optional,snappy"`
}

// WriteSeriesParquet writes a slice of SeriesPoint structs to a writer.
func WriteSeriesParquet(w io.Writer, data []SeriesPoint) error {
	return writeRecords(w, data)
}

// WriteSegmentsParquet writes a slice of SegmentRecord structs to a writer.
func WriteSegmentsParquet(w io.Writer, data []SegmentRecord) error {
	return writeRecords(w, data)
}

// WriteProjectionsParquet writes a slice of ProjectionRecord structs to a writer.
func WriteProjectionsParquet(w io.Writer, data []ProjectionRecord) error {
	return writeRecords(w, data)
}

// writeRecords streams records through a generic Parquet writer. The schema
// is derived from the record struct tags.
func writeRecords[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// SeriesPointsFromSet flattens a series set into parquet records, one per
// date and category.
func SeriesPointsFromSet(set *schema.SeriesSet, rowOrder []string) []SeriesPoint {
	var points []SeriesPoint
	for _, name := range rowOrder {
		values, ok := set.Row(name)
		if !ok {
			continue
		}
		for i, date := range set.Dates {
			points = append(points, SeriesPoint{
				Date:     date,
				Category: name,
				Kind:     string(set.Kind),
				Value:    values[i],
				Unit:     set.Unit,
			})
		}
	}
	return points
}
