package datemath

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "three nights",
			checkIn:  date(2025, time.July, 1),
			checkOut: date(2025, time.July, 4),
			want:     3,
		},
		{
			name:     "one night",
			checkIn:  date(2025, time.July, 1),
			checkOut: date(2025, time.July, 2),
			want:     1,
		},
		{
			name:     "same day",
			checkIn:  date(2025, time.July, 1),
			checkOut: date(2025, time.July, 1),
			want:     0,
		},
		{
			name:     "reversed range is negative",
			checkIn:  date(2025, time.July, 4),
			checkOut: date(2025, time.July, 1),
			want:     -3,
		},
		{
			name:     "time of day does not perturb the count",
			checkIn:  time.Date(2025, time.July, 1, 23, 59, 0, 0, time.Local),
			checkOut: time.Date(2025, time.July, 4, 0, 1, 0, 0, time.Local),
			want:     3,
		},
		{
			name:     "across month boundary",
			checkIn:  date(2025, time.January, 30),
			checkOut: date(2025, time.February, 2),
			want:     3,
		},
		{
			name:     "across year boundary",
			checkIn:  date(2024, time.December, 30),
			checkOut: date(2025, time.January, 2),
			want:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NightsBetween(tt.checkIn, tt.checkOut); got != tt.want {
				t.Errorf("NightsBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	start := date(2025, time.January, 31)

	next := AddDays(start, 1)
	if next.Month() != time.February || next.Day() != 1 {
		t.Errorf("AddDays(+1) = %v, want 2025-02-01", next)
	}
	if next.Hour() != 12 {
		t.Errorf("AddDays() lost the noon anchor: hour = %d", next.Hour())
	}

	back := AddDays(start, -31)
	if back.Year() != 2024 || back.Month() != time.December || back.Day() != 31 {
		t.Errorf("AddDays(-31) = %v, want 2024-12-31", back)
	}

	if got := NightsBetween(start, AddDays(start, 30)); got != 30 {
		t.Errorf("AddDays(30) spans %d nights, want 30", got)
	}
}

func TestTodayTomorrow(t *testing.T) {
	now := time.Date(2025, time.July, 1, 8, 45, 12, 0, time.Local)

	today := Today(now)
	if !SameDay(today, now) {
		t.Errorf("Today() = %v, not the same day as now", today)
	}
	if today.Hour() != 12 || today.Minute() != 0 {
		t.Errorf("Today() not anchored at noon: %v", today)
	}

	tomorrow := Tomorrow(now)
	if got := NightsBetween(today, tomorrow); got != 1 {
		t.Errorf("Tomorrow() is %d days ahead, want 1", got)
	}
}

func TestDayComparisons(t *testing.T) {
	morning := time.Date(2025, time.July, 1, 6, 0, 0, 0, time.Local)
	evening := time.Date(2025, time.July, 1, 22, 0, 0, 0, time.Local)
	nextDay := date(2025, time.July, 2)

	if !SameDay(morning, evening) {
		t.Error("SameDay() = false for two instants on the same day")
	}
	if BeforeDay(morning, evening) || AfterDay(evening, morning) {
		t.Error("Before/AfterDay must ignore time of day")
	}
	if !BeforeDay(evening, nextDay) {
		t.Error("BeforeDay() = false for an earlier calendar day")
	}
	if !AfterDay(nextDay, morning) {
		t.Error("AfterDay() = false for a later calendar day")
	}
}

func TestDaysSince(t *testing.T) {
	day := date(2025, time.July, 1)

	if got := DaysSince(day, date(2025, time.July, 3)); got != 2 {
		t.Errorf("DaysSince() = %d, want 2", got)
	}
	if got := DaysSince(day, day); got != 0 {
		t.Errorf("DaysSince(same day) = %d, want 0", got)
	}
	if got := DaysSince(day, date(2025, time.June, 29)); got != -2 {
		t.Errorf("DaysSince(future day) = %d, want -2", got)
	}
}

func TestParseFormatDate(t *testing.T) {
	parsed, err := ParseDate("2025-07-01")
	if err != nil {
		t.Fatalf("ParseDate() error: %v", err)
	}
	if parsed.Year() != 2025 || parsed.Month() != time.July || parsed.Day() != 1 {
		t.Errorf("ParseDate() = %v", parsed)
	}
	if parsed.Hour() != 12 {
		t.Errorf("ParseDate() not anchored at noon: %v", parsed)
	}

	if got := FormatDate(parsed); got != "2025-07-01" {
		t.Errorf("FormatDate() = %q, want 2025-07-01", got)
	}

	if _, err := ParseDate("01/07/2025"); err == nil {
		t.Error("ParseDate() accepted a non-ISO date")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("ParseDate() accepted an empty string")
	}
}

func TestFormatRange(t *testing.T) {
	got := FormatRange(date(2025, time.July, 1), date(2025, time.July, 4))
	want := "01 Jul 2025 - 04 Jul 2025"
	if got != want {
		t.Errorf("FormatRange() = %q, want %q", got, want)
	}
}
