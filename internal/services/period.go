package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
)

const minutesPerDay = 24 * 60

// ParseClock converts an HH:MM string to minutes since midnight.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// CalculateHours returns the hours between two clock times rounded to two
// decimals. An end before the start wraps past midnight.
func CalculateHours(start, end string) (float64, error) {
	s, ok := ParseClock(start)
	if !ok {
		return 0, validation.Fail("start_time", "start_time must be in HH:MM format")
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0, validation.Fail("end_time", "end_time must be in HH:MM format")
	}
	if e < s {
		e += minutesPerDay
	}
	hours := math.Round(float64(e-s)/60*100) / 100
	if hours <= 0 || hours > 24 {
		return 0, validation.Fail("hours_worked", "hours worked must be greater than 0 and at most 24")
	}
	return hours, nil
}

// WeekOfYear buckets d as ceil((days since Jan 1 + weekday of Jan 1 + 1) / 7),
// with Sunday as weekday 0. This is not ISO-8601 numbering; stored summaries
// depend on exactly this output.
func WeekOfYear(d time.Time) (week, year int) {
	d = d.UTC()
	jan1 := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	past := d.Sub(jan1).Hours() / 24
	week = int(math.Ceil((past + float64(jan1.Weekday()) + 1) / 7))
	return week, d.Year()
}

// ParseDate accepts YYYY-MM-DD or RFC3339 timestamps. Date-only values are
// taken as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// MonthRange returns [first instant of month, first instant of next month).
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
