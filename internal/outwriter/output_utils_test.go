package outwriter

import (
	"bytes"
	"testing"
	"time"

	"github.com/expendo-io/expendo/internal/contract"
	"github.com/expendo-io/expendo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gridStart = time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

func grid(n, grain int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = gridStart.AddDate(0, 0, i*grain)
	}
	return dates
}

// TestGetMaxTableNameWidth tests the width budget with explicit overrides.
func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{name: "narrow terminal floors at 15", width: 60, expected: 15},
		{name: "standard terminal", width: 100, expected: 45},
		{name: "wide terminal caps at 60", width: 200, expected: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg))
		})
	}
}

// TestCreateFormatters tests precision and date formatting closures.
func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtDate := createFormatters(2)
	assert.Equal(t, "3.14", fmtFloat(3.14159))
	assert.Equal(t, "01.06.26", fmtDate(gridStart))

	fmtInt, _ := createFormatters(0)
	assert.Equal(t, "3", fmtInt(3.14159))
}

// TestFormatZeroDate tests the dash placeholder for missing crossings.
func TestFormatZeroDate(t *testing.T) {
	assert.Equal(t, "-", formatZeroDate(nil))
	d := gridStart
	assert.Equal(t, "01.06.26", formatZeroDate(&d))
}

// TestSlopePerDay tests grain normalization of slopes.
func TestSlopePerDay(t *testing.T) {
	assert.InDelta(t, -2, slopePerDay(-2, 1), 1e-9)
	assert.InDelta(t, -2, slopePerDay(-14, 7), 1e-9)
	assert.InDelta(t, 3, slopePerDay(3, 0), 1e-9)
}

// TestTrendLabel tests the color dispatch.
func TestTrendLabel(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, contract.FallingValue, trendLabel(-1, plain))

	colored := &contract.Config{UseColors: true}
	assert.Contains(t, trendLabel(-1, colored), contract.FallingValue)
}

// TestSortedRowNames tests stable row ordering.
func TestSortedRowNames(t *testing.T) {
	set := &schema.SeriesSet{
		Rows: map[string][]float64{
			"Tag: urgent":  {1},
			"Queue: DEV":   {2},
			"Queue: OPS":   {3},
			"Component: x": {4},
		},
	}
	assert.Equal(t,
		[]string{"Component: x", "Queue: DEV", "Queue: OPS", "Tag: urgent"},
		sortedRowNames(set))
}

// TestSegmentDate tests index to date mapping with out-of-range guards.
func TestSegmentDate(t *testing.T) {
	dates := grid(4, 1)
	assert.True(t, dates[2].Equal(segmentDate(dates, 2)))
	assert.True(t, segmentDate(dates, -1).IsZero())
	assert.True(t, segmentDate(dates, 4).IsZero())
}

// TestSegmentZeroDate tests x-intercept to calendar date mapping.
func TestSegmentZeroDate(t *testing.T) {
	dates := grid(10, 1)

	t.Run("falling segment crosses inside the grid", func(t *testing.T) {
		seg := schema.Segment{X1: 0, X2: 9, A: -1, B: 6, D0: 6}
		zero := segmentZeroDate(dates, seg)
		require.NotNil(t, zero)
		assert.True(t, dates[6].Equal(*zero))
	})

	t.Run("weekly grain scales the crossing", func(t *testing.T) {
		weekly := grid(5, 7)
		seg := schema.Segment{X1: 0, X2: 4, A: -1, B: 2, D0: 2}
		zero := segmentZeroDate(weekly, seg)
		require.NotNil(t, zero)
		assert.True(t, weekly[2].Equal(*zero))
	})

	t.Run("flat segment", func(t *testing.T) {
		seg := schema.Segment{X1: 0, X2: 9, A: 0, B: 5, D0: -1}
		assert.Nil(t, segmentZeroDate(dates, seg))
	})

	t.Run("crossing before the grid", func(t *testing.T) {
		seg := schema.Segment{X1: 0, X2: 9, A: 1, B: 3, D0: -3}
		assert.Nil(t, segmentZeroDate(dates, seg))
	})

	t.Run("single-date grid", func(t *testing.T) {
		seg := schema.Segment{X1: 0, X2: 0, A: -1, B: 6, D0: 6}
		assert.Nil(t, segmentZeroDate(grid(1, 1), seg))
	})
}

// TestWriteCSVResultsForReport tests the date-by-category CSV layout.
func TestWriteCSVResultsForReport(t *testing.T) {
	set := &schema.SeriesSet{
		Dates: grid(2, 1),
		Rows: map[string][]float64{
			"Tag: urgent": {24, 16},
			"Queue: DEV":  {64, 40},
		},
		Kind: schema.EstimateKind,
		Unit: "hrs",
	}
	fmtFloat, fmtDate := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForReport(&buf, set, fmtFloat, fmtDate))

	expected := "date,Queue: DEV,Tag: urgent\n" +
		"01.06.26,64.0,24.0\n" +
		"02.06.26,40.0,16.0\n"
	assert.Equal(t, expected, buf.String())
}

// TestWriteCSVResultsForTrends tests the one-row-per-segment CSV layout.
func TestWriteCSVResultsForTrends(t *testing.T) {
	result := schema.TrendsResult{
		Dates: grid(10, 1),
		Rows: []schema.CategorySegments{
			{
				Category: "Queue: DEV",
				Kind:     schema.EstimateKind,
				Unit:     "hrs",
				Points:   10,
				Lambda:   2.5,
				Segments: []schema.Segment{
					{X1: 0, X2: 4, A: 0, B: 40, Y1: 40, Y2: 40, D0: -1, Lambda: 2.5},
					{X1: 5, X2: 9, A: -5, B: 65, Y1: 40, Y2: 20, D0: 13, Lambda: 2.5},
				},
			},
		},
	}
	fmtFloat, fmtDate := createFormatters(1)

	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForTrends(&buf, result, fmtFloat, fmtDate))

	expected := "category,kind,from,to,points,trend,slope,intercept,start_value,end_value,zero_date,lambda\n" +
		"Queue: DEV,estimate,01.06.26,05.06.26,5,Flat,0.0,40.0,40.0,40.0,,2.5\n" +
		"Queue: DEV,estimate,06.06.26,10.06.26,5,Falling,-5.0,65.0,40.0,20.0,14.06.26,2.5\n"
	assert.Equal(t, expected, buf.String())
}

// TestSegmentRecordsFromResult tests the parquet record flattening.
func TestSegmentRecordsFromResult(t *testing.T) {
	result := schema.TrendsResult{
		Dates: grid(10, 1),
		Rows: []schema.CategorySegments{
			{
				Category: "Tag: urgent",
				Kind:     schema.EstimateKind,
				Segments: []schema.Segment{
					{X1: 0, X2: 9, A: -1, B: 6, Y1: 6, Y2: -3, D0: 6, Lambda: 1},
				},
			},
		},
	}

	records := segmentRecordsFromResult(result)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Tag: urgent", rec.Category)
	assert.Equal(t, "estimate", rec.Kind)
	assert.True(t, result.Dates[0].Equal(rec.StartDate))
	assert.True(t, result.Dates[9].Equal(rec.EndDate))
	require.NotNil(t, rec.ZeroDate)
	assert.True(t, result.Dates[6].Equal(*rec.ZeroDate))
}
