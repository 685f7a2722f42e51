// Package core has core logic for series building, segmentation and projection.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/expendo-io/expendo/core/project"
	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/internal/outwriter"
	"github.com/expendo-io/expendo/internal/tracker"
	"github.com/expendo-io/expendo/schema"
)

// ExecutorFunc defines the function signature for executing different report modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteReport builds the raw metric table over the reporting range and
// prints it. It serves as the main entry point for the 'report' mode.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	engine, err := loadEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	set, err := buildSeriesSet(engine, cfg)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteReport(set, cfg, duration)
}

// ExecuteTrends builds the metric table, segments every category row into
// linear pieces, and prints the fitted segments. It serves as the main entry
// point for the 'trends' mode.
func ExecuteTrends(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	engine, err := loadEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	set, err := buildSeriesSet(engine, cfg)
	if err != nil {
		return err
	}
	result := analyzeSeries(cfg, set)
	if len(result.Rows) == 0 {
		return errors.New("no category could be segmented")
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteTrends(result, cfg, duration)
}

// ExecuteProject builds the metric table and projects completion dates from
// whole-range trend lines. It serves as the main entry point for the
// 'project' mode.
func ExecuteProject(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	engine, err := loadEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	set, err := buildSeriesSet(engine, cfg)
	if err != nil {
		return err
	}
	results, err := projectRows(cfg, set)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteProjections(results, cfg, duration)
}

// ExecuteCategories lists the known tags, components and queues of the
// requested issue set. It serves as the main entry point for the
// 'categories' mode.
func ExecuteCategories(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	engine, err := loadEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCategories(engine.Categories(), cfg)
}

// loadEngine fetches the configured queues from the tracker (through the
// issue cache when enabled) and builds the metric engine over them.
func loadEngine(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*tracker.Engine, error) {
	var client contract.TrackerClient = tracker.NewHTTPClient(cfg.BaseURL, cfg.Token, cfg.OrgID)
	if mgr != nil {
		client = tracker.NewCachedClient(client, mgr.GetIssueStore())
	}

	issues, err := fetchQueues(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, errors.New("no issues found in the requested queues")
	}
	return tracker.NewEngine(issues), nil
}

// queueResult carries one queue fetch outcome through the worker channel.
type queueResult struct {
	queue  string
	issues []schema.Issue
	err    error
}

// fetchQueues downloads all configured queues in parallel using a worker pool.
// Any queue failure fails the whole fetch; partial issue sets would silently
// skew every metric built on top of them.
func fetchQueues(ctx context.Context, cfg *contract.Config, client contract.TrackerClient) ([]schema.Issue, error) {
	queueCh := make(chan string, len(cfg.Queues))
	resultCh := make(chan queueResult, len(cfg.Queues))
	var wg sync.WaitGroup

	workers := min(cfg.Workers, len(cfg.Queues))
	if workers < 1 {
		workers = 1
	}
	for range workers {
		wg.Go(func() {
			for q := range queueCh {
				issues, err := client.SearchIssues(ctx, q)
				resultCh <- queueResult{queue: q, issues: issues, err: err}
			}
		})
	}

	for _, q := range cfg.Queues {
		queueCh <- q
	}
	close(queueCh)
	wg.Wait()
	close(resultCh)

	var all []schema.Issue
	for r := range resultCh {
		if r.err != nil {
			return nil, fmt.Errorf("queue %s: %w", r.queue, r.err)
		}
		all = append(all, r.issues...)
	}

	// Worker completion order is nondeterministic; sort for stable runs.
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all, nil
}

// buildSeriesSet resolves the reporting range against the tracker data and
// computes one metric row per requested category. Unknown categories are
// skipped with a warning so one typo does not sink a multi-category run.
func buildSeriesSet(engine *tracker.Engine, cfg *contract.Config) (*schema.SeriesSet, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	end, err := contract.ParseEndDate(cfg.PeriodTo, today)
	if err != nil {
		return nil, err
	}
	start, err := contract.ParseStartDate(cfg.PeriodFrom, end, cfg.Grain, engine.EarliestDate(), today)
	if err != nil {
		return nil, err
	}
	dates := contract.BuildDateGrid(start, end, cfg.BaseDate, cfg.Grain)
	if len(dates) == 0 {
		return nil, errors.New("the reporting range contains no grid dates")
	}

	categories := cfg.Categories
	if len(categories) == 0 {
		categories = engine.AllCategories()
	}
	resolved := make([]string, 0, len(categories))
	for _, cat := range categories {
		if _, _, err := engine.Filter(cat); err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping category %q", cat), err)
			continue
		}
		resolved = append(resolved, cat)
	}
	if len(resolved) == 0 {
		return nil, errors.New("no known categories to report on")
	}

	set, err := engine.SeriesSet(cfg.Kind, resolved, dates)
	if err != nil {
		return nil, err
	}
	if cfg.DV {
		tracker.Differentiate(set)
	}
	return set, nil
}

// projectRows runs the trend projector over the selected rows. With --row set
// only that row is projected and its failure is fatal; otherwise every row is
// tried and failures are skipped with a warning.
func projectRows(cfg *contract.Config, set *schema.SeriesSet) ([]schema.TrendProjection, error) {
	clamp, err := project.ClampDirectionFromString(cfg.Clamp)
	if err != nil {
		return nil, err
	}
	opts := project.Options{Start: cfg.ProjectFrom, Clamp: clamp}

	if cfg.Row != "" {
		name, err := resolveRow(set, cfg.Row)
		if err != nil {
			return nil, err
		}
		proj, err := project.Trends(set, name, opts)
		if err != nil {
			return nil, err
		}
		return []schema.TrendProjection{proj}, nil
	}

	names := set.RowNames()
	sort.Strings(names)
	var results []schema.TrendProjection
	for _, name := range names {
		proj, err := project.Trends(set, name, opts)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Skipping %s", name), err)
			continue
		}
		results = append(results, proj)
	}
	if len(results) == 0 {
		return nil, errors.New("no row could be projected")
	}
	return results, nil
}

// resolveRow matches a user-supplied row name against the set, accepting
// either the full "kind: name" label or the bare category name.
func resolveRow(set *schema.SeriesSet, row string) (string, error) {
	if _, ok := set.Row(row); ok {
		return row, nil
	}
	for _, name := range set.RowNames() {
		if strings.HasSuffix(name, ": "+row) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%q not present in data", row)
}
