// Package datemath implements calendar-day arithmetic for stays.
// Reservations deal in calendar dates, not instants: every value is
// normalized to local noon so that day arithmetic survives DST shifts
// without off-by-one drift.
package datemath

import (
	"math"
	"time"
)

const (
	// DateFormat is the wire format for calendar dates.
	DateFormat = "2006-01-02"

	// DisplayFormat renders a single date for humans.
	DisplayFormat = "02 Jan 2006"
)

// AtNoon returns t's calendar day anchored at 12:00 local time.
func AtNoon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// Today returns now's calendar day at noon.
func Today(now time.Time) time.Time {
	return AtNoon(now)
}

// Tomorrow returns the calendar day after now, at noon.
func Tomorrow(now time.Time) time.Time {
	return AddDays(now, 1)
}

// AddDays shifts t by n calendar days, keeping the noon anchor.
func AddDays(t time.Time, n int) time.Time {
	return AtNoon(AtNoon(t).AddDate(0, 0, n))
}

// NightsBetween returns the number of nights between two calendar dates.
// A valid stay has at least one night; callers reject anything below that.
// Rounding absorbs the 23h/25h days around DST transitions.
func NightsBetween(checkIn, checkOut time.Time) int {
	diff := AtNoon(checkOut).Sub(AtNoon(checkIn))
	return int(math.Round(diff.Hours() / 24))
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// BeforeDay reports whether a's calendar day is strictly before b's.
func BeforeDay(a, b time.Time) bool {
	return AtNoon(a).Before(AtNoon(b))
}

// AfterDay reports whether a's calendar day is strictly after b's.
func AfterDay(a, b time.Time) bool {
	return AtNoon(a).After(AtNoon(b))
}

// DaysSince returns how many whole calendar days have passed between day and
// now. Negative when day is still in the future.
func DaysSince(day, now time.Time) int {
	return NightsBetween(day, now)
}

// ParseDate parses a YYYY-MM-DD string into a noon-anchored local date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return AtNoon(t), nil
}

// FormatDate renders t in the YYYY-MM-DD wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// FormatRange renders a stay's date range for display, both endpoints
// included: "01 Jul 2025 - 04 Jul 2025".
func FormatRange(checkIn, checkOut time.Time) string {
	return checkIn.Format(DisplayFormat) + " - " + checkOut.Format(DisplayFormat)
}
