package cmd

import (
	"github.com/expendo-io/expendo/core"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/spf13/cobra"
)

// categoriesCmd lists the valid category names of the loaded queues.
var categoriesCmd = &cobra.Command{
	Use:   "categories [queues...]",
	Short: "List the tags, components and queues available for grouping.",
	Long: `Fetch the configured queues and list every category name that --categories
and --row accept: all distinct tags, components and queue keys found in the
issue set.

Examples:
  # See what can be grouped on
  expendo categories MYQUEUE

  # Feed another tool
  expendo categories MYQUEUE --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCategories(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list categories", err)
		}
	},
}
