package cmd

import (
	"github.com/expendo-io/expendo/core"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/spf13/cobra"
)

// projectCmd forecasts completion dates from whole-range trend lines.
var projectCmd = &cobra.Command{
	Use:   "project [queues...]",
	Short: "Forecast completion dates from metric trend lines.",
	Long: `Fit a regression line over each metric row and project when it reaches
zero, bracketed by envelope lines fitted to the points above and below the
mid fit. The three zero crossings give an expected completion date with an
earliest/latest range.

Requires at least 7 days of history per row. Use --clamp down on burn-down
rows so a noisy flat stretch still yields a finite forecast.

Examples:
  # Forecast all categories of a queue
  expendo project MYQUEUE

  # Forecast a single tag, ignoring history before the release cut
  expendo project MYQUEUE --row urgent --project-from 01.07.26

  # Pessimistic burn-down forecast
  expendo project MYQUEUE --clamp down --confidence 8`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProject(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run projection", err)
		}
	},
}
