package cmd

import (
	"github.com/expendo-io/expendo/core"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd builds the raw metric table.
var reportCmd = &cobra.Command{
	Use:   "report [queues...]",
	Short: "Show the raw metric table over the reporting range.",
	Long: `Build a date-by-category table of one metric over the reporting range.

Metric kinds:
  estimate - remaining estimated hours at each date
  spent    - cumulative logged hours at each date
  original - initial estimates of issues open at each date
  burn     - initial estimates of issues closed by each date

Rows are grouped by tag, component or queue. With --dv the table shows
per-period deltas (velocity) instead of levels.

Examples:
  # Daily remaining estimate for one queue
  expendo report MYQUEUE

  # Sprint-grained spent hours per component, as CSV
  expendo report MYQUEUE --kind spent --grain 14 --categories backend,frontend --output csv

  # Burn velocity over the last quarter
  expendo report MYQUEUE --kind burn --dv --from quarter`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}
