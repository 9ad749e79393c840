package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, s *Sheet) [][]string {
	t.Helper()
	data, err := s.Build()
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	require.Equal(t, s.Name, f.GetSheetName(0))
	rows, err := f.GetRows(s.Name)
	require.NoError(t, err)
	return rows
}

func TestWorkReportsSheetHasTotalRow(t *testing.T) {
	user := &models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	reports := []models.WorkReport{
		{User: user, Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), WorkDescription: "api", HoursWorked: 3.5, Status: models.ReportApproved, Week: 2, Year: 2024},
		{User: user, Date: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), WorkDescription: "tests", HoursWorked: 2, Status: models.ReportSubmitted, Week: 2, Year: 2024},
	}
	rows := readRows(t, WorkReports(reports))

	require.Len(t, rows, 4)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"10.01.2024", "Ada Lovelace", "ada@example.com", "-", "api", "3.5", "approved", "-", "2", "2024"}, rows[1])
	assert.Equal(t, "TOTAL", rows[3][1])
	assert.Equal(t, "5.5", rows[3][5])
}

func TestAttendanceSheetHeaderBlock(t *testing.T) {
	marked := time.Date(2024, 2, 5, 10, 30, 0, 0, time.UTC)
	m := &models.Meeting{
		Title:    "Kickoff",
		Location: "HQ",
		Date:     time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Time:     "10:00",
		Attendance: []models.MeetingAttendance{
			{User: &models.User{FirstName: "Ada", Email: "ada@example.com"}, Status: models.AttendanceAttended, MarkedAt: &marked, MarkedBy: &models.User{FirstName: "Root"}},
			{User: &models.User{FirstName: "Bob", Email: "bob@example.com"}, Status: models.AttendancePending},
		},
	}
	rows := readRows(t, Attendance(m, time.UTC))

	assert.Equal(t, "MEETING DETAILS", rows[0][0])
	assert.Equal(t, "Meeting: Kickoff", rows[1][0])
	assert.Equal(t, "Date: 05.02.2024 - 10:00", rows[2][0])
	assert.Equal(t, "Participant", rows[5][0])
	assert.Equal(t, []string{"Ada", "ada@example.com", "Attended", "05.02.2024 10:30", "Root"}, rows[6])
	assert.Equal(t, []string{"Bob", "bob@example.com", "Pending", "-", "-"}, rows[7])
}

func TestMeetingsSheet(t *testing.T) {
	meetings := []models.Meeting{{
		Title:        "Sync",
		Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Time:         "09:00",
		Location:     "Room 1",
		Status:       models.MeetingPlanned,
		CreatedBy:    &models.User{FirstName: "Root"},
		Participants: []models.User{{FirstName: "Ada"}, {FirstName: "Bob"}},
	}}
	rows := readRows(t, Meetings(meetings))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Sync", "-", "01.03.2024", "09:00", "Room 1", "planned", "Root", "2", "Ada, Bob"}, rows[1])
}

func TestComputeProductivity(t *testing.T) {
	ada := models.User{ID: uuid.New(), FirstName: "Ada"}
	bob := models.User{ID: uuid.New(), FirstName: "Bob"}
	day := func(d int) time.Time { return time.Date(2024, 4, d, 0, 0, 0, 0, time.UTC) }
	reports := []models.WorkReport{
		{UserID: ada.ID, Date: day(1), HoursWorked: 3, Status: models.ReportApproved},
		{UserID: ada.ID, Date: day(1), HoursWorked: 2, Status: models.ReportSubmitted},
		{UserID: ada.ID, Date: day(2), HoursWorked: 2, Status: models.ReportSubmitted},
		{UserID: ada.ID, Date: day(3), HoursWorked: 9, Status: models.ReportDraft},
		{UserID: bob.ID, Date: day(2), HoursWorked: 8, Status: models.ReportRejected},
	}
	rows := ComputeProductivity([]models.User{bob, ada}, reports)

	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0].User.FirstName)
	assert.Equal(t, 7.0, rows[0].TotalHours)
	assert.Equal(t, 2, rows[0].WorkDays)
	assert.Equal(t, 3.5, rows[0].DailyAvg)
	assert.Equal(t, 3, rows[0].ReportCount)
	assert.Equal(t, ProductivityRow{User: bob.Summary()}, rows[1])

	sheet := readRows(t, Productivity(rows))
	assert.Equal(t, []string{"Ada", "", "7", "2", "3.5", "3"}, sheet[1])
}
