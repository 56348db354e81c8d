// Package timemath contains date arithmetic for the week grid.
package timemath

import "time"

const week = 7 * 24 * time.Hour

// WeeksLived returns the number of full weeks between dob and now.
// A zero dob returns 0.
func WeeksLived(dob, now time.Time) int {
	if dob.IsZero() {
		return 0
	}
	diff := now.Sub(dob)
	if diff < 0 {
		return 0
	}
	return int(diff / week)
}

// DaysUntilNextBirthday returns the number of days until the next
// occurrence of dob's month and day relative to now, rounded up.
// If now is exactly the birthday moment it counts as not yet passed
// and returns 0. A zero dob returns 0.
func DaysUntilNextBirthday(dob, now time.Time) int {
	if dob.IsZero() {
		return 0
	}
	next := time.Date(now.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(1, 0, 0)
	}
	diff := next.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
