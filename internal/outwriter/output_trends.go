package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/internal/parquet"
	"github.com/expendo-io/expendo/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTrendsResults outputs the segmentation results, dispatching based on the output format configured.
func PrintTrendsResults(result schema.TrendsResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtDate := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForTrends(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForTrends(result, cfg, fmtFloat, fmtDate); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForTrends(result, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printTrendsTable(result, cfg, fmtFloat, fmtDate, duration); err != nil {
			return fmt.Errorf("error writing trends table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForTrends handles opening the file and calling the JSON writer.
func printJSONResultsForTrends(result schema.TrendsResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForTrends(w, result)
	}, "Wrote JSON trends results")
}

// printCSVResultsForTrends handles opening the file and calling the CSV writer.
func printCSVResultsForTrends(result schema.TrendsResult, cfg *contract.Config, fmtFloat func(float64) string, fmtDate func(time.Time) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForTrends(w, result, fmtFloat, fmtDate)
	}, "Wrote CSV trends results")
}

// printParquetResultsForTrends handles opening the file and calling the Parquet writer.
func printParquetResultsForTrends(result schema.TrendsResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.WriteSegmentsParquet(w, segmentRecordsFromResult(result))
	}, "Wrote Parquet trends results")
}

// printTrendsTable prints the fitted segments in a per-category table.
func printTrendsTable(result schema.TrendsResult, cfg *contract.Config, fmtFloat func(float64) string, fmtDate func(time.Time) string, duration time.Duration) error {
	table := tablewriter.NewWriter(os.Stdout)

	maxWidth := GetMaxTableNameWidth(cfg)

	// --- 1. Define Headers ---
	headers := []string{"Category", "From", "To", "Trend", "Hrs/Day", "Zero Date"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, row := range result.Rows {
		for _, seg := range row.Segments {
			tableRow := []string{
				contract.TruncateName(row.Category, maxWidth),
				fmtDate(segmentDate(result.Dates, seg.X1)),
				fmtDate(segmentDate(result.Dates, seg.X2)),
				trendLabel(seg.A, cfg),
				fmtFloat(slopePerDay(seg.A, cfg.Grain)),
				formatZeroDate(segmentZeroDate(result.Dates, seg)),
			}
			data = append(data, tableRow)
		}
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Trend analysis completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend)
	return nil
}

// segmentDate maps a grid index back to a calendar date.
func segmentDate(dates []time.Time, idx int) time.Time {
	if idx < 0 || idx >= len(dates) {
		return time.Time{}
	}
	return dates[idx]
}

// segmentZeroDate maps the x-intercept of a segment line to a calendar date.
// Flat segments and segments whose line crosses zero before the grid start
// have no meaningful zero date.
func segmentZeroDate(dates []time.Time, seg schema.Segment) *time.Time {
	if seg.Flat() || seg.D0 < 0 || len(dates) < 2 {
		return nil
	}
	step := dates[1].Sub(dates[0])
	zero := dates[0].Add(time.Duration(seg.D0 * float64(step)))
	return &zero
}

// segmentRecordsFromResult flattens a trends result into parquet records.
func segmentRecordsFromResult(result schema.TrendsResult) []parquet.SegmentRecord {
	var records []parquet.SegmentRecord
	for _, row := range result.Rows {
		for _, seg := range row.Segments {
			records = append(records, parquet.SegmentRecord{
				Category:   row.Category,
				Kind:       string(row.Kind),
				StartDate:  segmentDate(result.Dates, seg.X1),
				EndDate:    segmentDate(result.Dates, seg.X2),
				Slope:      seg.A,
				Intercept:  seg.B,
				StartValue: seg.Y1,
				EndValue:   seg.Y2,
				ZeroDate:   segmentZeroDate(result.Dates, seg),
				Lambda:     seg.Lambda,
			})
		}
	}
	return records
}
