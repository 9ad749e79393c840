package export

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
)

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func userName(u *models.User) string {
	if u == nil {
		return "-"
	}
	return u.FullName()
}

func userEmail(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

// WorkReports lists the reports with a TOTAL row of their hours.
func WorkReports(reports []models.WorkReport) *Sheet {
	s := &Sheet{
		Name: "Work Reports",
		Columns: []Column{
			{"Date", 12}, {"User", 20}, {"Email", 25}, {"Project", 20},
			{"Description", 40}, {"Hours", 8}, {"Status", 12}, {"Notes", 30},
			{"Week", 8}, {"Year", 8},
		},
	}
	var total float64
	for i := range reports {
		r := &reports[i]
		total += r.HoursWorked
		s.Rows = append(s.Rows, []interface{}{
			r.Date.UTC().Format(dateLayout),
			userName(r.User),
			userEmail(r.User),
			dash(r.Project),
			r.WorkDescription,
			r.HoursWorked,
			r.Status,
			dash(r.Notes),
			r.Week,
			r.Year,
		})
	}
	s.Footer = [][]interface{}{{"", "TOTAL", "", "", "", round2(total)}}
	return s
}

func Meetings(meetings []models.Meeting) *Sheet {
	s := &Sheet{
		Name: "Meetings",
		Columns: []Column{
			{"Title", 30}, {"Description", 40}, {"Date", 12}, {"Time", 8},
			{"Location", 20}, {"Status", 12}, {"Created By", 20},
			{"Participant Count", 12}, {"Participants", 50},
		},
	}
	for i := range meetings {
		m := &meetings[i]
		names := make([]string, 0, len(m.Participants))
		for j := range m.Participants {
			names = append(names, m.Participants[j].FullName())
		}
		s.Rows = append(s.Rows, []interface{}{
			m.Title,
			dash(m.Description),
			m.Date.UTC().Format(dateLayout),
			m.Time,
			m.Location,
			m.Status,
			userName(m.CreatedBy),
			len(m.Participants),
			strings.Join(names, ", "),
		})
	}
	return s
}

var attendanceLabel = map[string]string{
	models.AttendanceAttended:    "Attended",
	models.AttendanceNotAttended: "Not attended",
	models.AttendancePending:     "Pending",
}

// Attendance renders the meeting header block followed by one row per
// attendance record.
func Attendance(m *models.Meeting, loc *time.Location) *Sheet {
	s := &Sheet{
		Name: "Attendance",
		Preamble: []string{
			"MEETING DETAILS",
			"Meeting: " + m.Title,
			"Date: " + m.Date.UTC().Format(dateLayout) + " - " + m.Time,
			"Location: " + m.Location,
		},
		Columns: []Column{
			{"Participant", 25}, {"Email", 30}, {"Status", 15}, {"Marked At", 20}, {"Marked By", 20},
		},
	}
	for i := range m.Attendance {
		a := &m.Attendance[i]
		marked := "-"
		if a.MarkedAt != nil {
			marked = a.MarkedAt.In(loc).Format(dateTimeLayout)
		}
		label, ok := attendanceLabel[a.Status]
		if !ok {
			label = attendanceLabel[models.AttendancePending]
		}
		s.Rows = append(s.Rows, []interface{}{
			userName(a.User),
			userEmail(a.User),
			label,
			marked,
			userName(a.MarkedBy),
		})
	}
	return s
}

// ProductivityRow is one user's totals over the requested range.
type ProductivityRow struct {
	User        models.UserSummary `json:"user"`
	TotalHours  float64            `json:"total_hours"`
	WorkDays    int                `json:"work_days"`
	DailyAvg    float64            `json:"daily_average"`
	ReportCount int                `json:"report_count"`
}

// ComputeProductivity totals the counted reports of each user. Work days
// are distinct report dates. Rows are sorted by total hours descending.
func ComputeProductivity(users []models.User, reports []models.WorkReport) []ProductivityRow {
	type acc struct {
		hours float64
		count int
		days  map[string]bool
	}
	byUser := make(map[string]*acc, len(users))
	for _, r := range reports {
		if r.Status != models.ReportSubmitted && r.Status != models.ReportApproved {
			continue
		}
		key := r.UserID.String()
		a, ok := byUser[key]
		if !ok {
			a = &acc{days: map[string]bool{}}
			byUser[key] = a
		}
		a.hours += r.HoursWorked
		a.count++
		a.days[r.Date.UTC().Format("2006-01-02")] = true
	}

	rows := make([]ProductivityRow, 0, len(users))
	for i := range users {
		row := ProductivityRow{User: users[i].Summary()}
		if a, ok := byUser[users[i].ID.String()]; ok {
			row.TotalHours = round2(a.hours)
			row.ReportCount = a.count
			row.WorkDays = len(a.days)
			row.DailyAvg = round2(a.hours / float64(len(a.days)))
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].TotalHours > rows[j].TotalHours })
	return rows
}

func Productivity(rows []ProductivityRow) *Sheet {
	s := &Sheet{
		Name: "Productivity",
		Columns: []Column{
			{"User", 25}, {"Email", 30}, {"Total Hours", 12}, {"Work Days", 12},
			{"Daily Average", 15}, {"Report Count", 12},
		},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			strings.TrimSpace(r.User.FirstName + " " + r.User.LastName),
			r.User.Email,
			r.TotalHours,
			r.WorkDays,
			r.DailyAvg,
			r.ReportCount,
		})
	}
	return s
}
