package tracker

import (
	"strconv"
	"strings"
)

// Work-calendar constants for ISO-8601 duration conversion: the tracker
// counts 8 hours per day and 5 days per week.
const (
	hoursPerDay  = 8
	daysPerWeek  = 5
	hoursPerWeek = hoursPerDay * daysPerWeek
)

// isoSplit peels the leading integer off s up to the given divider letter.
// A missing divider or empty number counts as zero.
func isoSplit(s, divider string) (int, string) {
	n := 0
	if before, after, found := strings.Cut(s, divider); found {
		if before != "" {
			n, _ = strconv.Atoi(before)
		}
		s = after
	}
	return n, s
}

// IsoHours converts an ISO-8601 work duration (e.g. "P2W3DT4H") to hours.
// Components other than weeks, days and hours are ignored.
func IsoHours(s string) float64 {
	if s == "" {
		return 0
	}
	// Remove the leading P marker (and any sign before it).
	if idx := strings.LastIndex(s, "P"); idx >= 0 {
		s = s[idx+1:]
	}
	weeks, s := isoSplit(s, "W")
	days, s := isoSplit(s, "D")
	_, s = isoSplit(s, "T")
	hours, _ := isoSplit(s, "H")
	return float64(weeks*hoursPerWeek + days*hoursPerDay + hours)
}
