package core

import "time"

// Calendar fields are always read in an explicit location so that a
// transaction near midnight lands on the same day for every caller.

func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc)
}

// InYear reports whether t falls in the given calendar year.
func InYear(t time.Time, year int, loc *time.Location) bool {
	return inLocation(t, loc).Year() == year
}

// InMonth reports whether t falls in the given calendar year and month.
func InMonth(t time.Time, year int, month time.Month, loc *time.Location) bool {
	lt := inLocation(t, loc)
	return lt.Year() == year && lt.Month() == month
}

// SameDay reports whether a and b share a calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := inLocation(a, loc).Date()
	by, bm, bd := inLocation(b, loc).Date()
	return ay == by && am == bm && ad == bd
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
