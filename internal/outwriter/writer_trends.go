package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// writeJSONResultsForTrends marshals the schema.TrendsResult to JSON and writes it.
func writeJSONResultsForTrends(w io.Writer, result schema.TrendsResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForTrends writes the segmentation data to CSV, one row per
// fitted segment.
func writeCSVResultsForTrends(w io.Writer, result schema.TrendsResult, fmtFloat func(float64) string, fmtDate func(time.Time) string) error {
	header := []string{
		"category",
		"kind",
		"from",
		"to",
		"points",
		"trend",
		"slope",
		"intercept",
		"start_value",
		"end_value",
		"zero_date",
		"lambda",
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range result.Rows {
			for _, seg := range row.Segments {
				zero := ""
				if z := segmentZeroDate(result.Dates, seg); z != nil {
					zero = fmtDate(*z)
				}
				record := []string{
					row.Category,
					string(row.Kind),
					fmtDate(segmentDate(result.Dates, seg.X1)),
					fmtDate(segmentDate(result.Dates, seg.X2)),
					strconv.Itoa(seg.Length()),
					contract.GetPlainTrendLabel(seg.A),
					fmtFloat(seg.A),
					fmtFloat(seg.B),
					fmtFloat(seg.Y1),
					fmtFloat(seg.Y2),
					zero,
					fmtFloat(seg.Lambda),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
