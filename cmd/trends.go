package cmd

import (
	"github.com/expendo-io/expendo/core"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/spf13/cobra"
)

// trendsCmd segments metric rows into linear trend pieces.
var trendsCmd = &cobra.Command{
	Use:   "trends [queues...]",
	Short: "Split each metric row into linear trend segments.",
	Long: `Partition each category row into contiguous linear segments and report
the fitted slope, date range and projected zero crossing of every piece.

Segmentation is bottom-up: the series starts as minimal chunks that are
greedily merged while the fit cost of merging, minus a noise-derived penalty,
keeps improving. Helps you:
- See when a burn-down changed speed
- Separate planning spikes from steady progress
- Spot stalled categories at a glance

The penalty scales with --confidence times the estimated noise variance;
higher confidence yields fewer, longer segments.

Examples:
  # Segment the remaining estimate of one queue
  expendo trends MYQUEUE

  # Fewer segments on a noisy spent series
  expendo trends MYQUEUE --kind spent --confidence 8 --noise-method residuals_smooth

  # Sprint-grained segmentation per tag, exported for the warehouse
  expendo trends MYQUEUE --grain 14 --categories urgent,tech-debt --output parquet --output-file trends.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrends(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run trend analysis", err)
		}
	},
}
