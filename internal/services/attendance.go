package services

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
)

// AttendanceDiff is the result of reconciling stored attendance rows with a
// new participant list.
type AttendanceDiff struct {
	Keep   []models.MeetingAttendance
	Add    []models.MeetingAttendance
	Remove []models.MeetingAttendance
}

// Rows returns the attendance rows that remain after the diff is applied, in
// participant order.
func (d AttendanceDiff) Rows() []models.MeetingAttendance {
	return append(append([]models.MeetingAttendance{}, d.Keep...), d.Add...)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// BuildAttendance creates one pending row per distinct participant.
func BuildAttendance(meetingID uuid.UUID, participants []uuid.UUID) []models.MeetingAttendance {
	ids := uniqueIDs(participants)
	rows := make([]models.MeetingAttendance, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.MeetingAttendance{
			ID:        uuid.New(),
			MeetingID: meetingID,
			UserID:    id,
			Status:    models.AttendancePending,
		})
	}
	return rows
}

// ReconcileAttendance keeps the rows of retained participants untouched,
// adds pending rows for new participants and drops rows for users no longer
// in the list.
func ReconcileAttendance(meetingID uuid.UUID, current []models.MeetingAttendance, participants []uuid.UUID) AttendanceDiff {
	byUser := make(map[uuid.UUID]models.MeetingAttendance, len(current))
	for _, row := range current {
		byUser[row.UserID] = row
	}

	var diff AttendanceDiff
	wanted := make(map[uuid.UUID]bool)
	for _, id := range uniqueIDs(participants) {
		wanted[id] = true
		if row, ok := byUser[id]; ok {
			diff.Keep = append(diff.Keep, row)
			continue
		}
		diff.Add = append(diff.Add, BuildAttendance(meetingID, []uuid.UUID{id})...)
	}
	for _, row := range current {
		if !wanted[row.UserID] {
			diff.Remove = append(diff.Remove, row)
		}
	}
	return diff
}

// AttendanceCounts tallies attendance rows by status.
type AttendanceCounts struct {
	Total       int `json:"total"`
	Attended    int `json:"attended"`
	NotAttended int `json:"not_attended"`
	Pending     int `json:"pending"`
}

func CountAttendance(rows []models.MeetingAttendance) AttendanceCounts {
	c := AttendanceCounts{Total: len(rows)}
	for _, r := range rows {
		switch r.Status {
		case models.AttendanceAttended:
			c.Attended++
		case models.AttendanceNotAttended:
			c.NotAttended++
		default:
			c.Pending++
		}
	}
	return c
}
