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

// PrintReportResults outputs a raw metric table, dispatching based on the output format configured.
func PrintReportResults(set *schema.SeriesSet, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtDate := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForReport(set, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForReport(set, cfg, fmtFloat, fmtDate); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := printParquetResultsForReport(set, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		if err := printReportTable(set, cfg, fmtFloat, fmtDate, duration); err != nil {
			return fmt.Errorf("error writing report table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForReport handles opening the file and calling the JSON writer.
func printJSONResultsForReport(set *schema.SeriesSet, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForReport(w, set)
	}, "Wrote JSON report results")
}

// printCSVResultsForReport handles opening the file and calling the CSV writer.
func printCSVResultsForReport(set *schema.SeriesSet, cfg *contract.Config, fmtFloat func(float64) string, fmtDate func(time.Time) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResultsForReport(w, set, fmtFloat, fmtDate)
	}, "Wrote CSV report results")
}

// printParquetResultsForReport handles opening the file and calling the Parquet writer.
func printParquetResultsForReport(set *schema.SeriesSet, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return parquet.WriteSeriesParquet(w, parquet.SeriesPointsFromSet(set, sortedRowNames(set)))
	}, "Wrote Parquet report results")
}

// printReportTable prints the metric values in a date-by-category table.
func printReportTable(set *schema.SeriesSet, cfg *contract.Config, fmtFloat func(float64) string, fmtDate func(time.Time) string, duration time.Duration) error {
	// Use os.Stdout, consistent with existing table printing
	table := tablewriter.NewWriter(os.Stdout)

	names := sortedRowNames(set)
	maxWidth := GetMaxTableNameWidth(cfg)

	// --- 1. Define Headers ---
	headers := []string{"Date"}
	for _, name := range names {
		headers = append(headers, contract.TruncateName(name, maxWidth))
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for i, date := range set.Dates {
		row := []string{fmtDate(date)}
		for _, name := range names {
			values, _ := set.Row(name)
			row = append(row, fmtFloat(values[i]))
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

	fmt.Printf("Report completed in %v with %d workers (%s, %s). Cache backend: %s\n",
		duration, cfg.Workers, set.Kind, set.Unit, cfg.CacheBackend)
	return nil
}
