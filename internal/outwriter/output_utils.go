package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	return writeRows(csvWriter)
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtDate func(time.Time) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtDate = func(t time.Time) string {
		return t.Format(schema.DateFormat)
	}
	return fmtFloat, fmtDate
}

// trendLabel picks the colored or plain trend label based on the color setting.
func trendLabel(slope float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorTrendLabel(slope)
	}
	return contract.GetPlainTrendLabel(slope)
}

// sortedRowNames returns the row names of a series set in stable order.
func sortedRowNames(set *schema.SeriesSet) []string {
	names := set.RowNames()
	sort.Strings(names)
	return names
}

// formatZeroDate renders an optional zero-crossing date, or a dash when the
// line never reaches zero.
func formatZeroDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(schema.DateFormat)
}

// slopePerDay converts a per-sample slope to an hours-per-day velocity.
func slopePerDay(slope float64, grain int) float64 {
	if grain < 1 {
		return slope
	}
	return slope / float64(grain)
}
