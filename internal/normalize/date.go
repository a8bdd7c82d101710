package normalize

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseableDate signals that an input string could not be resolved to a
// calendar date. Callers must treat it as a row-level validation failure,
// never substitute "now" or the epoch.
var ErrUnparseableDate = errors.New("unparseable date")

// DateOrder selects how an ambiguous numeric date (both components <= 12) is
// read. The original data set is day-first, but the assumption is regional,
// so it stays configurable instead of hardcoded.
type DateOrder int

const (
	// OrderDayFirst reads 03/04/2025 as 3 April (default).
	OrderDayFirst DateOrder = iota
	// OrderMonthFirst reads 03/04/2025 as March 4.
	OrderMonthFirst
)

var numericDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})$`)

// isoTimestampLayouts are tried after the date-only fast path. The calendar
// date is taken in whatever zone the timestamp specifies.
var isoTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DateNormalizer parses heterogeneous date strings into UTC-midnight calendar
// dates. The zero value is ready to use with day-first ambiguity resolution.
type DateNormalizer struct {
	Order DateOrder
}

// ParseDate resolves an arbitrary string to a calendar date at UTC midnight.
//
// Accepted forms, in order:
//  1. literal YYYY-MM-DD (treated as UTC midnight directly, which keeps
//     date-only widget input stable across timezones)
//  2. ISO 8601 timestamps (date taken in the timestamp's own zone)
//  3. numeric D/M/Y or M/D/Y with 1-2 digit day/month and 2 or 4 digit year;
//     a component > 12 pins it as the day, otherwise Order decides
//
// Anything else, including impossible dates like 31/02/2025, returns
// ErrUnparseableDate.
func (n DateNormalizer) ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrUnparseableDate
	}

	// Fast path for date-only input.
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return atUTCMidnight(d.Year(), d.Month(), d.Day()), nil
	}

	for _, layout := range isoTimestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return atUTCMidnight(ts.Year(), ts.Month(), ts.Day()), nil
		}
	}

	m := numericDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrUnparseableDate
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	if a < 1 || a > 31 || b < 1 || b > 31 {
		return time.Time{}, ErrUnparseableDate
	}

	var day, month int
	switch {
	case a > 12 && b <= 12:
		day, month = a, b
	case b > 12 && a <= 12:
		day, month = b, a
	case a <= 12 && b <= 12:
		if n.Order == OrderMonthFirst {
			day, month = b, a
		} else {
			day, month = a, b
		}
	default:
		// both components > 12: no valid month assignment
		return time.Time{}, ErrUnparseableDate
	}

	d := atUTCMidnight(year, time.Month(month), day)
	// time.Date normalizes overflow (Feb 31 -> Mar 3); a round-trip mismatch
	// means the calendar date does not exist.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, ErrUnparseableDate
	}
	return d, nil
}

func atUTCMidnight(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
