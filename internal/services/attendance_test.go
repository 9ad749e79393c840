package services

import (
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAttendance(t *testing.T) {
	meetingID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	rows := BuildAttendance(meetingID, []uuid.UUID{a, b, c, b})
	require.Len(t, rows, 3)
	for i, id := range []uuid.UUID{a, b, c} {
		assert.Equal(t, id, rows[i].UserID)
		assert.Equal(t, meetingID, rows[i].MeetingID)
		assert.Equal(t, models.AttendancePending, rows[i].Status)
		assert.Nil(t, rows[i].MarkedAt)
	}
}

func TestReconcileAttendancePreservesRetained(t *testing.T) {
	meetingID := uuid.New()
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	admin := uuid.New()
	marked := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)

	current := BuildAttendance(meetingID, []uuid.UUID{a, b, c})
	current[1].Status = models.AttendanceAttended
	current[1].MarkedAt = &marked
	current[1].MarkedByID = &admin
	current[2].Status = models.AttendanceNotAttended

	diff := ReconcileAttendance(meetingID, current, []uuid.UUID{b, c, d})

	require.Len(t, diff.Keep, 2)
	assert.Equal(t, current[1], diff.Keep[0])
	assert.Equal(t, current[2], diff.Keep[1])

	require.Len(t, diff.Add, 1)
	assert.Equal(t, d, diff.Add[0].UserID)
	assert.Equal(t, models.AttendancePending, diff.Add[0].Status)

	require.Len(t, diff.Remove, 1)
	assert.Equal(t, a, diff.Remove[0].UserID)

	rows := diff.Rows()
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.NotEqual(t, a, r.UserID)
	}
}

func TestReconcileAttendanceNoChange(t *testing.T) {
	meetingID := uuid.New()
	a, b := uuid.New(), uuid.New()
	current := BuildAttendance(meetingID, []uuid.UUID{a, b})

	diff := ReconcileAttendance(meetingID, current, []uuid.UUID{b, a})
	assert.Len(t, diff.Keep, 2)
	assert.Empty(t, diff.Add)
	assert.Empty(t, diff.Remove)
}

func TestCountAttendance(t *testing.T) {
	rows := []models.MeetingAttendance{
		{Status: models.AttendanceAttended},
		{Status: models.AttendanceAttended},
		{Status: models.AttendanceNotAttended},
		{Status: models.AttendancePending},
	}
	assert.Equal(t, AttendanceCounts{Total: 4, Attended: 2, NotAttended: 1, Pending: 1}, CountAttendance(rows))
}
