package timeutil

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD string into a date normalized to midnight UTC.
// All calendar dates in the system are stored this way so that equality
// comparisons against the date column behave predictably.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(parsed), nil
}

// NormalizeDate strips the time-of-day and location from t, keeping only the
// calendar date at midnight UTC.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseClock parses a HH:MM string into a minute-of-day offset.
func ParseClock(value string) (int, error) {
	parsed, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// FormatClock renders a minute-of-day offset as HH:MM.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// Combine builds the full timestamp of a date + HH:MM pair in the given location.
func Combine(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, loc), nil
}

// Overlaps reports whether the half-open minute intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Age returns full years elapsed between birthDate and now.
func Age(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		years--
	}
	return years
}

// StartOfWeek returns the Monday of the week containing t, at midnight UTC.
func StartOfWeek(t time.Time) time.Time {
	day := NormalizeDate(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// StartOfMonth returns the first day of the month containing t, at midnight UTC.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
