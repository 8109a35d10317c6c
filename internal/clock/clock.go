// Package clock supplies the current date to services so tests can pin it.
package clock

import "time"

// Clock reports the current calendar date.
type Clock interface {
	Today() time.Time
}

// System is the wall clock, reporting dates in UTC.
type System struct{}

// Today returns midnight UTC of the current day.
func (System) Today() time.Time {
	return Date(time.Now())
}

// Fixed always reports the same day.
type Fixed time.Time

// Today returns the pinned date truncated to midnight UTC.
func (f Fixed) Today() time.Time {
	return Date(time.Time(f))
}

// Date drops the time of day, keeping the calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
