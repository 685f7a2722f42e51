package outwriter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// writeJSONResultsForProjections marshals the projections to JSON and writes them.
func writeJSONResultsForProjections(w io.Writer, results []schema.TrendProjection) error {
	return writeJSON(w, results)
}

// writeCSVResultsForProjections writes the projection data to CSV, one row
// per fitted line (mid, min, max) per category.
func writeCSVResultsForProjections(w io.Writer, results []schema.TrendProjection, fmtFloat func(float64) string, fmtDate func(time.Time) string) error {
	header := []string{
		"category",
		"line",
		"from",
		"to",
		"trend",
		"slope",
		"intercept",
		"zero_date",
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rec := range projectionRecords(results) {
			zero := ""
			if rec.ZeroDate != nil {
				zero = fmtDate(*rec.ZeroDate)
			}
			row := []string{
				rec.Category,
				rec.Line,
				fmtDate(rec.StartDate),
				fmtDate(rec.EndDate),
				contract.GetPlainTrendLabel(rec.Slope),
				fmtFloat(rec.Slope),
				fmtFloat(rec.Intercept),
				zero,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
