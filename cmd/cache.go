package cmd

import (
	"fmt"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/internal/iocache"
	"github.com/expendo-io/expendo/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config
	if err := iocache.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by analysis commands. This avoids tracker
// credential validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the issue cache (avoids repeated tracker fetches)",
	Long: `Manage the issue cache that speeds up repeated analyses.

Expendo caches queue snapshots (issues plus changelogs) to avoid re-fetching
the full history from the tracker API on every run. Snapshots refresh
automatically after 12 hours.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Run cache schema migrations

Examples:
  # Check cache status
  expendo cache status

  # Clear cache after queue history was reshuffled
  expendo cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached issue data",
	Long: `Delete all cached queue snapshots from the configured backend.

Use this when:
- Issues were moved between queues or bulk-edited
- Cache may be stale or corrupted
- Testing fetch performance without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table contents

Examples:
  # Clear SQLite cache (default)
  expendo cache clear

  # Clear MySQL cache (set connection string via env variable)
  EXPENDO_CACHE_BACKEND=mysql EXPENDO_CACHE_DB_CONNECT="..." expendo cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the issue cache.

Displays:
- Backend type and connection status
- Total number of cached queue snapshots
- Newest and oldest snapshot timestamps

Use this to:
- Verify cache is working and connected
- Check when the tracker was last fetched
- Debug cache-related issues

Examples:
  # Check cache status
  expendo cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetIssueStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheMigrateCmd runs cache schema migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations",
	Long: `Apply versioned schema migrations to the cache database.

The cache table is normally created on first use; migrations matter when
upgrading across releases that change the cache schema, or when rolling the
schema back.

Examples:
  # Migrate to the latest schema
  expendo cache migrate

  # Roll back all migrations
  expendo cache migrate --target-version 0`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		target := viper.GetInt("target-version")
		if err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, target); err != nil {
			contract.LogFatal("Failed to run cache migrations", err)
		}
		fmt.Println("Cache migrations applied successfully.")
	},
}
