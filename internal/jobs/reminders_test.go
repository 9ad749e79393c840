package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istanbul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return loc
}

func TestNextDaily(t *testing.T) {
	loc := istanbul(t)
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before hour", time.Date(2024, 6, 1, 8, 59, 0, 0, loc), time.Date(2024, 6, 1, 9, 0, 0, 0, loc)},
		{"exactly at hour", time.Date(2024, 6, 1, 9, 0, 0, 0, loc), time.Date(2024, 6, 2, 9, 0, 0, 0, loc)},
		{"after hour", time.Date(2024, 6, 1, 17, 0, 0, 0, loc), time.Date(2024, 6, 2, 9, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextDaily(tt.now, loc, 9)))
		})
	}
}

func TestNextHour(t *testing.T) {
	loc := istanbul(t)
	got := NextHour(time.Date(2024, 6, 1, 10, 25, 13, 0, loc), loc)
	assert.True(t, time.Date(2024, 6, 1, 11, 0, 0, 0, loc).Equal(got))
}

func TestDayRangeUsesLocalCalendarDay(t *testing.T) {
	loc := istanbul(t)
	// 22:30 UTC is already the next day in Istanbul.
	now := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	from, to := DayRange(now, loc, 1)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), to)
}

func TestStartsWithin(t *testing.T) {
	loc := istanbul(t)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, loc)
	m := &models.Meeting{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}

	for clock, want := range map[string]bool{
		"09:00": false,
		"09:01": true,
		"10:30": true,
		"10:31": false,
		"08:00": false,
		"bad":   false,
	} {
		m.Time = clock
		assert.Equal(t, want, StartsWithin(m, now, loc, UrgentWindow), clock)
	}
}

type fakeMeetings struct {
	meetings []models.Meeting
	from, to time.Time
	reminded []string
	failFor  string
}

func (f *fakeMeetings) Planned(_ context.Context, from, to time.Time) ([]models.Meeting, error) {
	f.from, f.to = from, to
	out := make([]models.Meeting, len(f.meetings))
	copy(out, f.meetings)
	return out, nil
}

func (f *fakeMeetings) Remind(_ context.Context, m *models.Meeting) (int, error) {
	if m.Title == f.failFor {
		return 0, errors.New("smtp down")
	}
	f.reminded = append(f.reminded, m.Title)
	return len(m.Participants), nil
}

func TestRunHourlyFiltersByWindow(t *testing.T) {
	loc := istanbul(t)
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	people := []models.User{{ID: uuid.New()}, {ID: uuid.New()}}
	src := &fakeMeetings{meetings: []models.Meeting{
		{Title: "soon", Date: today, Time: "10:00", Participants: people},
		{Title: "later", Date: today, Time: "15:00", Participants: people},
		{Title: "empty", Date: today, Time: "10:15"},
	}}
	r := NewReminders(src, loc, 9)
	r.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, loc) }

	sent := r.RunHourly(context.Background())
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"soon"}, src.reminded)
	assert.Equal(t, today, src.from)
	assert.Equal(t, today.AddDate(0, 0, 2), src.to)
}

func TestRunDailyContinuesAfterFailure(t *testing.T) {
	loc := istanbul(t)
	people := []models.User{{ID: uuid.New()}}
	src := &fakeMeetings{failFor: "broken", meetings: []models.Meeting{
		{Title: "broken", Participants: people},
		{Title: "ok", Participants: people},
	}}
	r := NewReminders(src, loc, 9)
	r.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, loc) }

	assert.Equal(t, 1, r.RunDaily(context.Background()))
	assert.Equal(t, []string{"ok"}, src.reminded)
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), src.from)
}
