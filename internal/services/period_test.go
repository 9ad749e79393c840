package services

import (
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHours(t *testing.T) {
	tests := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 8},
		{"09:00", "09:20", 0.33},
		{"08:15", "12:45", 4.5},
		{"22:00", "02:00", 4},
		{"23:59", "00:00", 0.02},
		{"00:00", "23:59", 23.98},
	}
	for _, tt := range tests {
		got, err := CalculateHours(tt.start, tt.end)
		require.NoError(t, err, tt.start+"-"+tt.end)
		assert.Equal(t, tt.want, got, tt.start+"-"+tt.end)
	}
}

func TestCalculateHoursRejects(t *testing.T) {
	for _, pair := range [][2]string{{"09:00", "09:00"}, {"9", "10:00"}, {"09:00", "24:00"}, {"ab:cd", "10:00"}} {
		_, err := CalculateHours(pair[0], pair[1])
		assert.True(t, validation.IsValidation(err), pair)
	}
}

func TestWeekOfYear(t *testing.T) {
	tests := []struct {
		date string
		week int
		year int
	}{
		{"2024-01-01", 1, 2024}, // Jan 1 is a Monday
		{"2024-01-06", 1, 2024},
		{"2024-01-07", 2, 2024},
		{"2023-01-07", 1, 2023}, // Jan 1 is a Sunday
		{"2023-01-08", 2, 2023},
		{"2024-12-31", 53, 2024},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.date)
		require.NoError(t, err)
		week, year := WeekOfYear(d)
		assert.Equal(t, tt.week, week, tt.date)
		assert.Equal(t, tt.year, year, tt.date)
	}
}

func TestWeekOfYearCountsTimeOfDay(t *testing.T) {
	// 2024-01-06 is the last day of week 1 at midnight; any later instant
	// pushes the fractional day count into week 2.
	week, _ := WeekOfYear(time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, week)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2024-02-29T10:00:00+03:00")
	assert.NoError(t, err)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 12)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
