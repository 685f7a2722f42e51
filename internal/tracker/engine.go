// Package tracker turns raw issue changelogs into per-date analytic series:
// estimate, spent, original and burned hours, grouped by queue, component or
// tag.
package tracker

import (
	"fmt"
	"sort"
	"time"

	"github.com/expendo-io/expendo/schema"
)

// farFuture stands in for unknown start/end dates so date comparisons stay
// simple; any real reporting date is before it.
var farFuture = time.Now().UTC().AddDate(3, 0, 0)

// issueFacts summarizes the burn-relevant lifecycle of one issue.
type issueFacts struct {
	start    time.Time // first transition into inProgress/testing
	end      time.Time // last fixed resolution
	created  time.Time
	original float64 // estimate in effect when work started
	valuable bool    // task/bug that was not rejected
	finished bool    // closed with a fixed resolution
}

// Engine computes metric series over a fixed set of issues. Lifecycle facts
// are derived once per issue on construction; series are recomputed per call.
type Engine struct {
	issues []schema.Issue
	facts  []issueFacts

	queues     []string
	components []string
	tags       []string
}

// NewEngine builds an engine over the given issues.
func NewEngine(issues []schema.Issue) *Engine {
	e := &Engine{issues: issues, facts: make([]issueFacts, len(issues))}
	for i := range issues {
		e.facts[i] = deriveFacts(&issues[i])
	}
	e.collectCategories()
	return e
}

// deriveFacts reduces an issue changelog to its lifecycle facts. Events are
// reverse-sorted by date (most recent first).
func deriveFacts(issue *schema.Issue) issueFacts {
	start := farFuture
	for i := len(issue.Events) - 1; i >= 0; i-- {
		ev := issue.Events[i]
		if ev.Kind == schema.EventStatus && (ev.Value == "inProgress" || ev.Value == "testing") {
			start = ev.Date
			break
		}
	}
	end := farFuture
	for _, ev := range issue.Events {
		if ev.Kind == schema.EventResolution && ev.Value == "fixed" {
			end = ev.Date
			break
		}
	}
	// An issue closed without ever entering progress starts when it ends.
	if end.Before(start) {
		start = end
	}

	// Last estimation before start; if the issue was never estimated before
	// work began, fall back to its first estimation ever.
	original := 0.0
	found := false
	for _, ev := range issue.Events {
		if ev.Kind == schema.EventEstimation && !ev.Date.After(start) {
			original = ev.Hours
			found = true
			break
		}
	}
	if !found {
		for i := len(issue.Events) - 1; i >= 0; i-- {
			if issue.Events[i].Kind == schema.EventEstimation {
				original = issue.Events[i].Hours
				break
			}
		}
	}

	valuable := (issue.Type == "task" || issue.Type == "bug") &&
		(issue.Resolution == "" || issue.Resolution == "fixed")
	finished := (issue.Status == "resolved" || issue.Status == "closed") &&
		issue.Resolution == "fixed"

	return issueFacts{
		start:    start,
		end:      end,
		created:  issue.CreatedAt,
		original: original,
		valuable: valuable,
		finished: finished,
	}
}

// collectCategories gathers the distinct queues, components and tags.
func (e *Engine) collectCategories() {
	queues := map[string]struct{}{}
	components := map[string]struct{}{}
	tags := map[string]struct{}{}
	for i := range e.issues {
		queues[e.issues[i].Queue] = struct{}{}
		for _, c := range e.issues[i].Components {
			components[c] = struct{}{}
		}
		for _, t := range e.issues[i].Tags {
			tags[t] = struct{}{}
		}
	}
	e.queues = sortedKeys(queues)
	e.components = sortedKeys(components)
	e.tags = sortedKeys(tags)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Categories returns the valid category names of the issue set.
func (e *Engine) Categories() schema.CategoryInfo {
	return schema.CategoryInfo{
		Queues:     e.queues,
		Components: e.components,
		Tags:       e.tags,
	}
}

// AllCategories returns every known category name, tags first, then
// components, then queues, matching the resolution order of Filter.
func (e *Engine) AllCategories() []string {
	all := make([]string, 0, len(e.tags)+len(e.components)+len(e.queues))
	all = append(all, e.tags...)
	all = append(all, e.components...)
	all = append(all, e.queues...)
	return all
}

// EarliestDate returns the date of the oldest changelog event across all
// issues, which bounds the "all" reporting range.
func (e *Engine) EarliestDate() time.Time {
	earliest := time.Now().UTC()
	found := false
	for i := range e.issues {
		events := e.issues[i].Events
		if len(events) == 0 {
			continue
		}
		oldest := events[len(events)-1].Date
		if !found || oldest.Before(earliest) {
			earliest = oldest
			found = true
		}
	}
	return earliest
}

// Filter resolves a category name to its kind and matching issue indices.
// Tags are checked first, then components, then queues.
func (e *Engine) Filter(category string) (schema.CategoryKind, []int, error) {
	if contains(e.tags, category) {
		return schema.TagCategory, e.match(func(i int) bool {
			return contains(e.issues[i].Tags, category)
		}), nil
	}
	if contains(e.components, category) {
		return schema.ComponentCategory, e.match(func(i int) bool {
			return contains(e.issues[i].Components, category)
		}), nil
	}
	if contains(e.queues, category) {
		return schema.QueueCategory, e.match(func(i int) bool {
			return e.issues[i].Queue == category
		}), nil
	}
	return "", nil, fmt.Errorf("%q is not a known tag, component, or queue", category)
}

func (e *Engine) match(pred func(int) bool) []int {
	var idx []int
	for i := range e.issues {
		if pred(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Metric sums one series kind over the given issues at a date.
func (e *Engine) Metric(kind schema.SeriesKind, idx []int, date time.Time) (float64, error) {
	switch kind {
	case schema.EstimateKind:
		return e.estimate(idx, date), nil
	case schema.SpentKind:
		return e.spent(idx, date), nil
	case schema.OriginalKind:
		return e.original(idx, date), nil
	case schema.BurnKind:
		return e.burned(idx, date), nil
	default:
		return 0, fmt.Errorf("unknown series kind %q", kind)
	}
}

// estimate sums the last estimation value at or before the date. A closed
// task always carries a zero estimation in its changelog.
func (e *Engine) estimate(idx []int, date time.Time) float64 {
	var sum float64
	for _, i := range idx {
		sum += lastEventValue(e.issues[i].Events, schema.EventEstimation, date)
	}
	return sum
}

// spent sums the last cumulative spent value at or before the date.
func (e *Engine) spent(idx []int, date time.Time) float64 {
	var sum float64
	for _, i := range idx {
		sum += lastEventValue(e.issues[i].Events, schema.EventSpent, date)
	}
	return sum
}

// original sums the initial estimates of valuable issues open at the date.
func (e *Engine) original(idx []int, date time.Time) float64 {
	var sum float64
	for _, i := range idx {
		f := e.facts[i]
		if f.valuable && !f.created.After(date) && !f.end.Before(date) {
			sum += f.original
		}
	}
	return sum
}

// burned sums the initial estimates of valuable issues closed by the date.
func (e *Engine) burned(idx []int, date time.Time) float64 {
	var sum float64
	for _, i := range idx {
		f := e.facts[i]
		if f.valuable && f.finished && !f.end.After(date) {
			sum += f.original
		}
	}
	return sum
}

// lastEventValue returns the most recent value of an event kind at or before
// the date. Events are reverse-sorted, so the first hit wins.
func lastEventValue(events []schema.IssueEvent, kind string, date time.Time) float64 {
	for _, ev := range events {
		if ev.Kind == kind && !ev.Date.After(date) {
			return ev.Hours
		}
	}
	return 0
}

// SeriesSet computes one row per category over the date grid. Row labels
// carry the category kind prefix ("Tag: frontend"). With dv set, rows are
// first-differenced in place with the first sample zeroed.
func (e *Engine) SeriesSet(kind schema.SeriesKind, categories []string, dates []time.Time) (*schema.SeriesSet, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("empty date grid")
	}
	set := &schema.SeriesSet{
		Dates: dates,
		Rows:  make(map[string][]float64, len(categories)),
		Kind:  kind,
		Unit:  "hrs",
	}
	for _, cat := range categories {
		catKind, idx, err := e.Filter(cat)
		if err != nil {
			return nil, err
		}
		values := make([]float64, len(dates))
		for j, date := range dates {
			v, err := e.Metric(kind, idx, date)
			if err != nil {
				return nil, err
			}
			values[j] = v
		}
		set.Rows[fmt.Sprintf("%s: %s", catKind, cat)] = values
	}
	return set, nil
}

// Differentiate converts the rows to per-period deltas, zeroing the first
// sample. The unit gains a /dt suffix.
func Differentiate(set *schema.SeriesSet) {
	for _, values := range set.Rows {
		for i := len(values) - 1; i > 0; i-- {
			values[i] -= values[i-1]
		}
		if len(values) > 0 {
			values[0] = 0
		}
	}
	set.DV = true
	set.Unit = "hrs/dt"
}
