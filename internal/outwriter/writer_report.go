package outwriter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/expendo-io/expendo/schema"
)

// writeJSONResultsForReport marshals the schema.SeriesSet to JSON and writes it.
func writeJSONResultsForReport(w io.Writer, set *schema.SeriesSet) error {
	return writeJSON(w, set)
}

// writeCSVResultsForReport writes the series values to CSV, one row per grid
// date and one column per category.
func writeCSVResultsForReport(w io.Writer, set *schema.SeriesSet, fmtFloat func(float64) string, fmtDate func(time.Time) string) error {
	names := sortedRowNames(set)
	header := append([]string{"date"}, names...)

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, date := range set.Dates {
			row := []string{fmtDate(date)}
			for _, name := range names {
				values, _ := set.Row(name)
				row = append(row, fmtFloat(values[i]))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
