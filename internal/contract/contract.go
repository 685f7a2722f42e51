// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/expendo-io/expendo/schema"
)

// TrackerClient defines the operations needed to pull issues and their
// changelogs out of the issue tracker. This keeps the analytics core testable
// without a live tracker connection.
type TrackerClient interface {
	// SearchIssues returns all issues of a queue, changelog events included,
	// reverse-sorted by event date.
	SearchIssues(ctx context.Context, queue string) ([]schema.Issue, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetIssueStore() CacheStore
}

// CacheStore defines the interface for cached issue-event storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Clear() error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
