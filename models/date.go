package models

import (
	"time"
)

// DateLayout is the date-only ISO layout used for every schedule field
const DateLayout = "2006-01-02"

// Date is a date-only ISO string ("YYYY-MM-DD"). The empty value means "not set".
type Date string

// NewDate converts a time into a Date using the time's own calendar day
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the calendar day of now
func Today(now time.Time) Date {
	return NewDate(now)
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d == ""
}

// Time parses the date. Timestamps are accepted and truncated to their day.
func (d Date) Time() (time.Time, bool) {
	s := string(d)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Valid reports whether the date parses
func (d Date) Valid() bool {
	_, ok := d.Time()
	return ok
}

// Normalized returns the date in canonical form, or "" when it does not parse
func (d Date) Normalized() Date {
	t, ok := d.Time()
	if !ok {
		return ""
	}
	return NewDate(t)
}

// AddDays shifts the date by n calendar days. Invalid dates are returned unchanged.
func (d Date) AddDays(n int) Date {
	t, ok := d.Time()
	if !ok {
		return d
	}
	return NewDate(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than o. Unset dates never compare.
func (d Date) Before(o Date) bool {
	a, ok1 := d.Time()
	b, ok2 := o.Time()
	return ok1 && ok2 && a.Before(b)
}

// After reports whether d is strictly later than o
func (d Date) After(o Date) bool {
	return o.Before(d)
}

// DaysBetween returns to - from in whole days
func DaysBetween(from, to Date) (int, bool) {
	a, ok1 := from.Time()
	b, ok2 := to.Time()
	if !ok1 || !ok2 {
		return 0, false
	}
	return int(b.Sub(a).Hours() / 24), true
}

// MinDate returns the earliest valid date of the list
func MinDate(dates ...Date) (Date, bool) {
	var best Date
	found := false
	for _, d := range dates {
		if !d.Valid() {
			continue
		}
		if !found || d.Before(best) {
			best = d.Normalized()
			found = true
		}
	}
	return best, found
}

// MaxDate returns the latest valid date of the list
func MaxDate(dates ...Date) (Date, bool) {
	var best Date
	found := false
	for _, d := range dates {
		if !d.Valid() {
			continue
		}
		if !found || d.After(best) {
			best = d.Normalized()
			found = true
		}
	}
	return best, found
}
