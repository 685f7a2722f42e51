package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/expendo-io/expendo/core/segment"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
)

// analyzeSeries segments every row of the series set in parallel using a
// worker pool. It spawns cfg.Workers goroutines to process category rows
// concurrently and aggregates their results into a single trends result.
// Rows that cannot be segmented are skipped with a warning so one broken
// category does not sink the whole run.
func analyzeSeries(cfg *contract.Config, set *schema.SeriesSet) schema.TrendsResult {
	names := set.RowNames()
	sort.Strings(names)

	// Initialize channels based on the final number of rows to be processed.
	rowCh := make(chan string, len(names))
	resultCh := make(chan schema.CategorySegments, len(names))
	var wg sync.WaitGroup

	// Start worker pool
	for range cfg.Workers {
		wg.Go(func() {
			for name := range rowCh {
				row, err := analyzeRow(cfg, set, name)
				if err != nil {
					contract.LogWarn(fmt.Sprintf("Skipping %s", name), err)
					continue
				}
				resultCh <- row
			}
		})
	}

	// Send rows to worker channel
	for _, name := range names {
		rowCh <- name
	}
	close(rowCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	// Workers finish out of order; restore the sorted row order.
	byName := make(map[string]schema.CategorySegments, len(names))
	for r := range resultCh {
		byName[r.Category] = r
	}
	result := schema.TrendsResult{Dates: set.Dates}
	for _, name := range names {
		if r, ok := byName[name]; ok {
			result.Rows = append(result.Rows, r)
		}
	}
	return result
}

// analyzeRow computes the noise-derived penalty for one category row and
// partitions it into linear segments.
func analyzeRow(cfg *contract.Config, set *schema.SeriesSet, name string) (schema.CategorySegments, error) {
	values, ok := set.Row(name)
	if !ok {
		return schema.CategorySegments{}, fmt.Errorf("%q not present in data", name)
	}

	method, err := segment.NoiseMethodFromString(cfg.NoiseMethod)
	if err != nil {
		return schema.CategorySegments{}, err
	}
	lambda, err := segment.Lambda(values, cfg.Confidence, method)
	if err != nil {
		return schema.CategorySegments{}, err
	}
	segments, err := segment.BottomUp(values, cfg.MinLength, lambda)
	if err != nil {
		return schema.CategorySegments{}, err
	}

	return schema.CategorySegments{
		Category: name,
		Kind:     set.Kind,
		Unit:     set.Unit,
		Points:   len(values),
		Lambda:   lambda,
		Segments: segments,
	}, nil
}
