package iocache

import (
	"fmt"
	"sync"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// issueTable is the name of the table for issue-event caching.
const issueTable = "issue_cache"

// CacheStoreManager manages the CacheStore instances.
type CacheStoreManager struct {
	sync.RWMutex // protects the store pointer during initialization
	issues       contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetIssueStore returns the issue CacheStore.
func (mgr *CacheStoreManager) GetIssueStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.issues
}

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores initializes the global cache manager. Safe to call more than
// once; only the first call takes effect.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewCacheStore(issueTable, backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize issue caching: %w", err)
			return
		}
		Manager.Lock()
		Manager.issues = store
		Manager.Unlock()
	})
	return initErr
}

// CloseStores closes the global stores, once.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.issues != nil {
			_ = Manager.issues.Close()
		}
	})
}

// ClearCache removes all cached issue data. For SQLite the database file is
// deleted outright; for server backends the table contents are dropped.
func ClearCache(backend schema.DatabaseBackend, sqlitePath, connStr string) error {
	if backend == schema.SQLiteBackend {
		path := connStr
		if path == "" {
			path = sqlitePath
		}
		return DeleteSQLiteFile(path)
	}
	store := Manager.GetIssueStore()
	if store == nil {
		return fmt.Errorf("cache store is not initialized")
	}
	return store.Clear()
}

// PrintCacheStatus renders cache status in a human-readable form.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache backend: %s\n", status.Backend)
	if status.Backend == schema.NoneBackend {
		fmt.Println("Caching is disabled.")
		return
	}
	fmt.Printf("Connected:     %v\n", status.Connected)
	fmt.Printf("Entries:       %d\n", status.EntryCount)
	if status.DatabasePath != "" {
		fmt.Printf("Database:      %s\n", status.DatabasePath)
	}
	if !status.OldestEntry.IsZero() {
		fmt.Printf("Oldest entry:  %s\n", status.OldestEntry.Format("2006-01-02 15:04:05"))
	}
	if !status.NewestEntry.IsZero() {
		fmt.Printf("Newest entry:  %s\n", status.NewestEntry.Format("2006-01-02 15:04:05"))
	}
}
