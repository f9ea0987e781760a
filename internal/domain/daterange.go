package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for range bounds.
const DateLayout = "2006-01-02"

// recordDateLayouts are tried in order when reading a record date.
var recordDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseRecordDate parses an ISO-8601 record date with or without time of day.
func ParseRecordDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range recordDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// calendarDay drops the time of day, keeping the date as written in t's zone.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive [From, To] window of calendar dates. A nil bound
// leaves that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDateRange builds a range from two optional YYYY-MM-DD strings.
// Empty strings leave the bound open. From after To is accepted.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange

	if from = strings.TrimSpace(from); from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: from %q", ErrInvalidDate, from)
		}
		r.From = &t
	}

	if to = strings.TrimSpace(to); to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: to %q", ErrInvalidDate, to)
		}
		r.To = &t
	}

	return r, nil
}

func (r DateRange) clone() DateRange {
	var c DateRange
	if r.From != nil {
		f := *r.From
		c.From = &f
	}
	if r.To != nil {
		t := *r.To
		c.To = &t
	}
	return c
}

// IsUnbounded reports whether neither bound is set.
func (r DateRange) IsUnbounded() bool {
	return r.From == nil && r.To == nil
}

// EndOfRange returns the last instant covered by To (23:59:59.999999999).
func (r DateRange) EndOfRange() (time.Time, bool) {
	if r.To == nil {
		return time.Time{}, false
	}
	return calendarDay(*r.To).Add(24*time.Hour - time.Nanosecond), true
}

// Contains reports whether t falls inside the range. Only the calendar date of
// t is compared, so anything dated on To is included whatever its time of day.
func (r DateRange) Contains(t time.Time) bool {
	day := calendarDay(t)

	if r.From != nil && day.Before(calendarDay(*r.From)) {
		return false
	}

	if r.To != nil && day.After(calendarDay(*r.To)) {
		return false
	}

	return true
}

// Key renders the range for cache keys and logs, e.g. "2024-02-01..*".
func (r DateRange) Key() string {
	from, to := "*", "*"
	if r.From != nil {
		from = r.From.Format(DateLayout)
	}
	if r.To != nil {
		to = r.To.Format(DateLayout)
	}
	return from + ".." + to
}

// FilterRecords returns the records dated inside r. The input is never
// modified; an unbounded range returns a copy of it. Records with an
// unreadable date cannot be placed and are dropped when r has a bound.
func FilterRecords(records []Record, r DateRange) []Record {
	out, _ := filterRecords(records, r, "")
	return out
}

func filterRecords(records []Record, r DateRange, st SourceType) ([]Record, []Diagnostic) {
	out := make([]Record, 0, len(records))

	if r.IsUnbounded() {
		return append(out, records...), nil
	}

	var diags []Diagnostic
	for _, rec := range records {
		t, ok := ParseRecordDate(rec.Date)
		if !ok {
			diags = append(diags, dateDiagnostic(rec, sourceTypeOf(rec, st), "excluded from dated range"))
			continue
		}
		if r.Contains(t) {
			out = append(out, rec)
		}
	}

	return out, diags
}

func sourceTypeOf(rec Record, st SourceType) SourceType {
	if st != "" {
		return st
	}
	return rec.Type
}
