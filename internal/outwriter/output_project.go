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

// PrintProjectionResults outputs the trend projections, dispatching based on the output format configured.
func PrintProjectionResults(results []schema.TrendProjection, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtDate := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForProjections(results, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForProjections(results, cfg, fmtFloat, fmtDate); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForProjections(results, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printProjectionTable(results, cfg, fmtFloat, fmtDate, duration); err != nil {
			return fmt.Errorf("error writing projection table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForProjections handles opening the file and calling the JSON writer.
func printJSONResultsForProjections(results []schema.TrendProjection, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForProjections(w, results)
	}, "Wrote JSON projection results")
}

// printCSVResultsForProjections handles opening the file and calling the CSV writer.
func printCSVResultsForProjections(results []schema.TrendProjection, cfg *contract.Config, fmtFloat func(float64) string, fmtDate func(time.Time) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForProjections(w, results, fmtFloat, fmtDate)
	}, "Wrote CSV projection results")
}

// printParquetResultsForProjections handles opening the file and calling the Parquet writer.
func printParquetResultsForProjections(results []schema.TrendProjection, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.WriteProjectionsParquet(w, projectionRecords(results))
	}, "Wrote Parquet projection results")
}

// printProjectionTable prints one row per projected category, with the mid
// regression and the optimistic/pessimistic completion envelope.
func printProjectionTable(results []schema.TrendProjection, cfg *contract.Config, fmtFloat func(float64) string, fmtDate func(time.Time) string, duration time.Duration) error {
	table := tablewriter.NewWriter(os.Stdout)

	maxWidth := GetMaxTableNameWidth(cfg)

	// --- 1. Define Headers ---
	headers := []string{"Category", "From", "To", "Trend", "Hrs/Day", "Finish", "Earliest", "Latest"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, p := range results {
		row := []string{
			contract.TruncateName(p.Name, maxWidth),
			fmtDate(p.Start),
			fmtDate(p.End),
			trendLabel(p.Mid.A, cfg),
			fmtFloat(slopePerDay(p.Mid.A, cfg.Grain)),
			formatZeroDate(p.MidZero),
			formatZeroDate(p.MinZero),
			formatZeroDate(p.MaxZero),
		}
		data = append(data, row)
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Projection completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend)
	return nil
}

// projectionRecords flattens projections into parquet records, one per line.
func projectionRecords(results []schema.TrendProjection) []parquet.ProjectionRecord {
	var records []parquet.ProjectionRecord
	for _, p := range results {
		lines := []struct {
			name string
			line schema.TrendLine
			zero *time.Time
		}{
			{"mid", p.Mid, p.MidZero},
			{"min", p.Min, p.MinZero},
			{"max", p.Max, p.MaxZero},
		}
		for _, l := range lines {
			records = append(records, parquet.ProjectionRecord{
				Category:  p.Name,
				Line:      l.name,
				StartDate: p.Start,
				EndDate:   p.End,
				Slope:     l.line.A,
				Intercept: l.line.B,
				ZeroDate:  l.zero,
			})
		}
	}
	return records
}
