package services

import (
	"time"

	"spesecasa/internal/models"
)

// daysIn returns the number of days of month m in year y.
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped moves t by n calendar months. When the day does not exist
// in the target month it is clamped to the month's last day.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// addYearsClamped moves t by n years; Feb 29 becomes Feb 28 in common years.
func addYearsClamped(t time.Time, n int) time.Time {
	return addMonthsClamped(t, 12*n)
}

// targetDay is the day of month a rule's movement falls on. February is
// always capped at 28, other months at 31, and a day the month lacks falls
// back to its last day.
func targetDay(dayOfMonth, year int, month time.Month) int {
	d := dayOfMonth
	if d < 1 {
		d = 1
	}
	limit := 31
	if month == time.February {
		limit = 28
	}
	if d > limit {
		d = limit
	}
	if last := daysIn(year, month); d > last {
		d = last
	}
	return d
}

// monthSchedule lists the dates a monthly rule occupies between start and
// end inclusive. The cursor advances one month at a time from start and the
// clamped day carries over to later steps.
func monthSchedule(start, end time.Time, dayOfMonth int, months models.MonthSet) []time.Time {
	var dates []time.Time
	for cursor := start; !cursor.After(end); cursor = addMonthsClamped(cursor, 1) {
		y, m, _ := cursor.Date()
		if !months.Applies(int(m)) {
			continue
		}
		dates = append(dates, time.Date(y, m, targetDay(dayOfMonth, y, m), 0, 0, 0, 0, time.UTC))
	}
	return dates
}

type yearMonth struct {
	year  int
	month time.Month
}

func monthKey(t time.Time) yearMonth {
	return yearMonth{year: t.Year(), month: t.Month()}
}
