package contract

import (
	"fmt"
	"time"

	"github.com/expendo-io/expendo/schema"
)

// day is a calendar day as a duration, used for grid arithmetic.
const day = 24 * time.Hour

// ParseEndDate resolves the end of a reporting period. Accepted values are
// "today"/"now", "yesterday", or an absolute date in DD.MM.YY form.
func ParseEndDate(s string, today time.Time) (time.Time, error) {
	switch s {
	case "", "today", "now":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	default:
		t, err := time.Parse(schema.DateFormat, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid end date %q: use today, yesterday, or DD.MM.YY", s)
		}
		return t, nil
	}
}

// ParseStartDate resolves the start of a reporting period relative to its
// end. Accepted values are "today"/"now", "yesterday", the relative ranges
// "week", "sprint" (one grain), "month", "quarter", "year", "all"/"full"
// (back to the earliest known data), or an absolute DD.MM.YY date. The result
// never falls after end.
func ParseStartDate(s string, end time.Time, grain int, earliest time.Time, today time.Time) (time.Time, error) {
	var start time.Time
	switch s {
	case "today", "now":
		start = today
	case "yesterday":
		start = today.AddDate(0, 0, -1)
	case "week":
		start = end.AddDate(0, 0, -7)
	case "sprint":
		start = end.AddDate(0, 0, -grain)
	case "month":
		start = end.AddDate(0, -1, 0)
	case "quarter":
		start = end.AddDate(0, -3, 0)
	case "year":
		start = end.AddDate(-1, 0, 0)
	case "", "all", "full":
		start = earliest
	default:
		t, err := time.Parse(schema.DateFormat, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid start date %q: use a range keyword or DD.MM.YY", s)
		}
		start = t
	}
	if start.After(end) {
		start = end
	}
	return start, nil
}

// BuildDateGrid generates the sampling dates from start to end with a step of
// grain days. Both ends are snapped backwards onto the sprint grid anchored
// at base, so consecutive runs with the same base land on the same dates.
func BuildDateGrid(start, end, base time.Time, grain int) []time.Time {
	if grain < 1 {
		grain = 1
	}
	end = end.AddDate(0, 0, -daysBetween(end, base)%grain)
	if off := daysBetween(start, base) % grain; off != 0 {
		start = start.AddDate(0, 0, -(grain - off))
	}

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, grain) {
		dates = append(dates, d)
	}
	return dates
}

// daysBetween returns the absolute number of whole days between two dates.
func daysBetween(a, b time.Time) int {
	d := int(a.Sub(b) / day)
	if d < 0 {
		return -d
	}
	return d
}
