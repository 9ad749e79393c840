// Package jobs runs the background meeting reminders.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
)

// UrgentWindow is how far ahead the hourly job looks for meetings.
const UrgentWindow = 90 * time.Minute

// MeetingSource is the part of the meeting service the reminders use.
type MeetingSource interface {
	Planned(ctx context.Context, from, to time.Time) ([]models.Meeting, error)
	Remind(ctx context.Context, m *models.Meeting) (int, error)
}

type Reminders struct {
	meetings  MeetingSource
	loc       *time.Location
	dailyHour int
	now       func() time.Time
}

func NewReminders(meetings MeetingSource, loc *time.Location, dailyHour int) *Reminders {
	if loc == nil {
		loc = time.UTC
	}
	return &Reminders{meetings: meetings, loc: loc, dailyHour: dailyHour, now: time.Now}
}

// Start launches the daily and hourly loops. Both stop when ctx is done.
func (r *Reminders) Start(ctx context.Context) {
	go r.loop(ctx, "daily", func(now time.Time) time.Time { return NextDaily(now, r.loc, r.dailyHour) }, r.RunDaily)
	go r.loop(ctx, "hourly", func(now time.Time) time.Time { return NextHour(now, r.loc) }, r.RunHourly)
	slog.Info("meeting reminders scheduled", "daily_hour", r.dailyHour, "timezone", r.loc.String())
}

func (r *Reminders) loop(ctx context.Context, name string, next func(time.Time) time.Time, run func(context.Context) int) {
	for {
		wait := next(r.now()).Sub(r.now())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			sent := run(ctx)
			slog.Info("meeting reminder run finished", "action", "reminders_"+name, "sent", sent)
		}
	}
}

// RunDaily mails a reminder for every planned meeting dated tomorrow.
func (r *Reminders) RunDaily(ctx context.Context) int {
	from, to := DayRange(r.now(), r.loc, 1)
	meetings, err := r.meetings.Planned(ctx, from, to)
	if err != nil {
		slog.Error("reminder query failed", "action", "reminders_daily", "error", err)
		return 0
	}
	return r.send(ctx, "reminders_daily", meetings)
}

// RunHourly mails a reminder for planned meetings starting within the
// urgent window.
func (r *Reminders) RunHourly(ctx context.Context) int {
	now := r.now()
	from, _ := DayRange(now, r.loc, 0)
	_, to := DayRange(now, r.loc, 1)
	meetings, err := r.meetings.Planned(ctx, from, to)
	if err != nil {
		slog.Error("reminder query failed", "action", "reminders_hourly", "error", err)
		return 0
	}
	due := meetings[:0]
	for _, m := range meetings {
		if StartsWithin(&m, now, r.loc, UrgentWindow) {
			due = append(due, m)
		}
	}
	return r.send(ctx, "reminders_hourly", due)
}

func (r *Reminders) send(ctx context.Context, action string, meetings []models.Meeting) int {
	total := 0
	for i := range meetings {
		m := &meetings[i]
		if len(m.Participants) == 0 {
			continue
		}
		n, err := r.meetings.Remind(ctx, m)
		if err != nil {
			slog.Error("meeting reminder failed", "action", action, "meeting_id", m.ID.String(), "error", err)
			continue
		}
		total += n
	}
	return total
}

// NextDaily returns the first hour:00 in loc strictly after now.
func NextDaily(now time.Time, loc *time.Location, hour int) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// NextHour returns the next top of the hour in loc.
func NextHour(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	top := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
	return top.Add(time.Hour)
}

// DayRange returns the stored-date bounds [from, to) of the calendar day
// offset days after now's day in loc. Meeting dates are kept as UTC
// midnight of their calendar day.
func DayRange(now time.Time, loc *time.Location, offset int) (time.Time, time.Time) {
	y, m, d := now.In(loc).Date()
	from := time.Date(y, m, d+offset, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 1)
}

// StartsWithin reports whether m starts in (now, now+window].
func StartsWithin(m *models.Meeting, now time.Time, loc *time.Location, window time.Duration) bool {
	start, err := m.StartsAt(loc)
	if err != nil {
		return false
	}
	until := start.Sub(now)
	return until > 0 && until <= window
}
