// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a raw series report using the configured output format.
func (ow *OutWriter) WriteReport(set *schema.SeriesSet, cfg *contract.Config, duration time.Duration) error {
	return PrintReportResults(set, cfg, duration)
}

// WriteTrends prints segmentation results using the configured output format.
func (ow *OutWriter) WriteTrends(result schema.TrendsResult, cfg *contract.Config, duration time.Duration) error {
	return PrintTrendsResults(result, cfg, duration)
}

// WriteProjections prints trend projections using the configured output format.
func (ow *OutWriter) WriteProjections(results []schema.TrendProjection, cfg *contract.Config, duration time.Duration) error {
	return PrintProjectionResults(results, cfg, duration)
}

// WriteCategories prints the known category names of the loaded queues.
func (ow *OutWriter) WriteCategories(info schema.CategoryInfo, cfg *contract.Config) error {
	return PrintCategoryInfo(info, cfg)
}

// GetMaxTableNameWidth calculates the maximum width for category names in
// table output based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: date range, trend label, slope,
	// zero date, plus borders and padding.
	baseWidth := 55

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable name width
		return 15
	}
	if available > 60 {
		// Maximum name width to prevent overly long rows
		return 60
	}
	return available
}
