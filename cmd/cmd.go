// Package cmd defines the command-line interface for expendo.
package cmd

import (
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("token", "", "Tracker OAuth token (prefer EXPENDO_TOKEN)")
	rootCmd.PersistentFlags().String("org", "", "Tracker organization id (prefer EXPENDO_ORG)")
	rootCmd.PersistentFlags().String("base-url", "", "Tracker API base URL")
	rootCmd.PersistentFlags().StringP("queues", "q", "", "Comma-separated list of tracker queues")
	rootCmd.PersistentFlags().StringP("kind", "k", string(schema.EstimateKind), "Metric kind: estimate or spent or original or burn")
	rootCmd.PersistentFlags().StringP("categories", "c", "", "Comma-separated tags, components or queues (default: all known)")
	rootCmd.PersistentFlags().String("from", "", "Start of range: week, sprint, month, quarter, year, all, or DD.MM.YY")
	rootCmd.PersistentFlags().String("to", "", "End of range: today, yesterday, or DD.MM.YY")
	rootCmd.PersistentFlags().String("base", "", "Sprint grid anchor date in DD.MM.YY (default: today)")
	rootCmd.PersistentFlags().IntP("grain", "g", contract.DefaultGrain, "Days per sample (1 = daily, 14 = sprint)")
	rootCmd.PersistentFlags().Bool("dv", false, "First-difference the series (velocity instead of level)")
	rootCmd.PersistentFlags().Int("min-length", contract.DefaultMinLength, "Minimum segment length in samples")
	rootCmd.PersistentFlags().Float64("confidence", contract.DefaultConfidence, "Merge penalty multiplier on the noise variance (3-10)")
	rootCmd.PersistentFlags().String("noise-method", "differences", "Noise estimator: residuals or differences or residuals_smooth")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of projectCmd to Viper
	projectCmd.Flags().String("row", "", "Project a single row (category name or full 'kind: name' label)")
	projectCmd.Flags().String("clamp", "none", "Clamp projected slopes: none or down or up")
	projectCmd.Flags().String("project-from", "", "Drop history before this DD.MM.YY date from the fit")
	if err := viper.BindPFlags(projectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding project flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
