package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// cacheVersion invalidates cached payloads when the serialized issue format
// changes. Bump on any schema.Issue field change.
const cacheVersion = 1

// cacheMaxAge bounds how stale a cached queue snapshot may be before a
// refetch. Issue history only grows, so half a day of lag is acceptable for
// day-grained analytics.
const cacheMaxAge = 12 * time.Hour

// CachedClient wraps a TrackerClient with a persistent per-queue snapshot
// cache. A fetch failure after a cache miss is returned as-is; a stale cache
// entry is refreshed and overwritten.
type CachedClient struct {
	inner contract.TrackerClient
	store contract.CacheStore
}

var _ contract.TrackerClient = &CachedClient{} // Compile-time check

// NewCachedClient wraps client with the given store. A nil store disables
// caching and returns the client unchanged.
func NewCachedClient(client contract.TrackerClient, store contract.CacheStore) contract.TrackerClient {
	if store == nil {
		return client
	}
	return &CachedClient{inner: client, store: store}
}

// SearchIssues serves a queue snapshot from cache when fresh enough,
// delegating to the wrapped client otherwise.
func (c *CachedClient) SearchIssues(ctx context.Context, queue string) ([]schema.Issue, error) {
	key := "queue:" + queue

	if data, version, ts, err := c.store.Get(key); err == nil && version == cacheVersion {
		age := time.Since(time.Unix(ts, 0))
		if age < cacheMaxAge {
			var issues []schema.Issue
			if err := json.Unmarshal(data, &issues); err == nil {
				return issues, nil
			}
			// Corrupt payload: fall through and refetch.
		}
	}

	issues, err := c.inner.SearchIssues(ctx, queue)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(issues)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize issues for caching: %w", err)
	}
	if err := c.store.Set(key, data, cacheVersion, time.Now().Unix()); err != nil {
		// Caching is best effort; the fetched data is still good.
		return issues, nil
	}
	return issues, nil
}
