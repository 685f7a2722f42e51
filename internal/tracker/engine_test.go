package tracker

import (
	"testing"
	"time"

	"github.com/expendo-io/expendo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDate = time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return baseDate.AddDate(0, 0, n)
}

// fixtureIssues builds a small issue set with one full lifecycle, one
// unestimated epic, and one rejected bug. Events are reverse-sorted by date.
func fixtureIssues() []schema.Issue {
	return []schema.Issue{
		{
			Key:        "DEV-1",
			Type:       "task",
			Queue:      "DEV",
			Components: []string{"api"},
			Tags:       []string{"urgent"},
			Status:     "closed",
			Resolution: "fixed",
			CreatedAt:  day(0),
			Events: []schema.IssueEvent{
				{Date: day(10), Kind: schema.EventResolution, Value: "fixed"},
				{Date: day(10), Kind: schema.EventEstimation, Hours: 0},
				{Date: day(9), Kind: schema.EventSpent, Hours: 16},
				{Date: day(5), Kind: schema.EventSpent, Hours: 8},
				{Date: day(5), Kind: schema.EventEstimation, Hours: 16},
				{Date: day(2), Kind: schema.EventStatus, Value: "inProgress"},
				{Date: day(1), Kind: schema.EventEstimation, Hours: 24},
			},
		},
		{
			Key:       "DEV-2",
			Type:      "epic",
			Queue:     "DEV",
			Status:    "open",
			CreatedAt: day(0),
			Events: []schema.IssueEvent{
				{Date: day(3), Kind: schema.EventEstimation, Hours: 40},
			},
		},
		{
			Key:        "OPS-1",
			Type:       "bug",
			Queue:      "OPS",
			Status:     "closed",
			Resolution: "wontFix",
			CreatedAt:  day(0),
			Events: []schema.IssueEvent{
				{Date: day(4), Kind: schema.EventResolution, Value: "wontFix"},
				{Date: day(3), Kind: schema.EventStatus, Value: "inProgress"},
				{Date: day(1), Kind: schema.EventEstimation, Hours: 10},
			},
		},
	}
}

// TestEngineCategories tests category discovery and ordering.
func TestEngineCategories(t *testing.T) {
	e := NewEngine(fixtureIssues())

	info := e.Categories()
	assert.Equal(t, []string{"DEV", "OPS"}, info.Queues)
	assert.Equal(t, []string{"api"}, info.Components)
	assert.Equal(t, []string{"urgent"}, info.Tags)

	// Tags resolve first, then components, then queues.
	assert.Equal(t, []string{"urgent", "api", "DEV", "OPS"}, e.AllCategories())
}

// TestEngineFilter tests category resolution by kind.
func TestEngineFilter(t *testing.T) {
	e := NewEngine(fixtureIssues())

	tests := []struct {
		name     string
		category string
		kind     schema.CategoryKind
		indices  []int
	}{
		{name: "tag", category: "urgent", kind: schema.TagCategory, indices: []int{0}},
		{name: "component", category: "api", kind: schema.ComponentCategory, indices: []int{0}},
		{name: "queue", category: "DEV", kind: schema.QueueCategory, indices: []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, idx, err := e.Filter(tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.indices, idx)
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		_, _, err := e.Filter("frontend")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a known tag, component, or queue")
	})
}

// TestEngineEstimate tests the remaining-estimate series over the lifecycle
// of one issue.
func TestEngineEstimate(t *testing.T) {
	e := NewEngine(fixtureIssues())
	_, idx, err := e.Filter("urgent")
	require.NoError(t, err)

	tests := []struct {
		name     string
		date     time.Time
		expected float64
	}{
		{name: "before first estimation", date: day(0), expected: 0},
		{name: "after first estimation", date: day(3), expected: 24},
		{name: "after re-estimation", date: day(6), expected: 16},
		{name: "after close", date: day(10), expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := e.Metric(schema.EstimateKind, idx, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	t.Run("queue includes the epic", func(t *testing.T) {
		_, devIdx, err := e.Filter("DEV")
		require.NoError(t, err)
		v, err := e.Metric(schema.EstimateKind, devIdx, day(4))
		require.NoError(t, err)
		assert.Equal(t, 64.0, v)
	})
}

// TestEngineSpent tests the cumulative spent series.
func TestEngineSpent(t *testing.T) {
	e := NewEngine(fixtureIssues())
	_, idx, err := e.Filter("urgent")
	require.NoError(t, err)

	for _, tt := range []struct {
		date     time.Time
		expected float64
	}{
		{date: day(4), expected: 0},
		{date: day(5), expected: 8},
		{date: day(10), expected: 16},
	} {
		v, err := e.Metric(schema.SpentKind, idx, tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, v)
	}
}

// TestEngineOriginal verifies that the original metric carries the estimate
// in effect when work started, only while the issue is open, and only for
// valuable issues.
func TestEngineOriginal(t *testing.T) {
	e := NewEngine(fixtureIssues())
	_, devIdx, err := e.Filter("DEV")
	require.NoError(t, err)

	// DEV-1 entered progress at day 2 with the day-1 estimate of 24 hours.
	// The later re-estimations never change its original. The epic is not
	// valuable and contributes nothing.
	for _, tt := range []struct {
		date     time.Time
		expected float64
	}{
		{date: day(0), expected: 24},
		{date: day(6), expected: 24},
		{date: day(10), expected: 24},
		{date: day(11), expected: 0},
	} {
		v, err := e.Metric(schema.OriginalKind, devIdx, tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, v)
	}

	t.Run("rejected issues never count", func(t *testing.T) {
		_, opsIdx, err := e.Filter("OPS")
		require.NoError(t, err)
		v, err := e.Metric(schema.OriginalKind, opsIdx, day(5))
		require.NoError(t, err)
		assert.Equal(t, 0.0, v)
	})
}

// TestEngineBurned tests the burned-estimate series around the close date.
func TestEngineBurned(t *testing.T) {
	e := NewEngine(fixtureIssues())
	_, idx, err := e.Filter("DEV")
	require.NoError(t, err)

	before, err := e.Metric(schema.BurnKind, idx, day(9))
	require.NoError(t, err)
	assert.Equal(t, 0.0, before)

	after, err := e.Metric(schema.BurnKind, idx, day(10))
	require.NoError(t, err)
	assert.Equal(t, 24.0, after)
}

// TestEngineMetricUnknownKind tests the error path.
func TestEngineMetricUnknownKind(t *testing.T) {
	e := NewEngine(fixtureIssues())
	_, err := e.Metric(schema.SeriesKind("velocity"), nil, day(0))
	require.Error(t, err)
}

// TestEngineEarliestDate verifies the oldest changelog event wins.
func TestEngineEarliestDate(t *testing.T) {
	e := NewEngine(fixtureIssues())
	assert.True(t, day(1).Equal(e.EarliestDate()))
}

// TestEngineSeriesSet tests row construction and labeling over a date grid.
func TestEngineSeriesSet(t *testing.T) {
	e := NewEngine(fixtureIssues())
	dates := []time.Time{day(3), day(6)}

	set, err := e.SeriesSet(schema.EstimateKind, []string{"urgent"}, dates)
	require.NoError(t, err)

	require.Len(t, set.Rows, 1)
	values, ok := set.Row("Tag: urgent")
	require.True(t, ok)
	assert.Equal(t, []float64{24, 16}, values)
	assert.Equal(t, schema.EstimateKind, set.Kind)
	assert.Equal(t, "hrs", set.Unit)
	assert.False(t, set.DV)

	t.Run("empty grid", func(t *testing.T) {
		_, err := e.SeriesSet(schema.EstimateKind, []string{"urgent"}, nil)
		require.Error(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := e.SeriesSet(schema.EstimateKind, []string{"frontend"}, dates)
		require.Error(t, err)
	})
}

// TestDifferentiate tests in-place first differencing.
func TestDifferentiate(t *testing.T) {
	set := &schema.SeriesSet{
		Dates: []time.Time{day(0), day(1), day(2)},
		Rows:  map[string][]float64{"Queue: DEV": {10, 14, 13}},
		Kind:  schema.EstimateKind,
		Unit:  "hrs",
	}

	Differentiate(set)

	assert.Equal(t, []float64{0, 4, -1}, set.Rows["Queue: DEV"])
	assert.True(t, set.DV)
	assert.Equal(t, "hrs/dt", set.Unit)
}
