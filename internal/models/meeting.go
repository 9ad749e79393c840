package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MeetingPlanned   = "planned"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"

	AttendancePending     = "pending"
	AttendanceAttended    = "attended"
	AttendanceNotAttended = "not_attended"
)

type Meeting struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title        string              `gorm:"size:255;not null" json:"title"`
	Description  string              `gorm:"type:text" json:"description"`
	Date         time.Time           `gorm:"not null;index" json:"date"`
	Time         string              `gorm:"size:5;not null" json:"time"` // HH:MM
	Location     string              `gorm:"size:255" json:"location"`
	Status       string              `gorm:"size:20;not null;index" json:"status"`
	CreatedByID  uuid.UUID           `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy    *User               `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Participants []User              `gorm:"many2many:meeting_participants" json:"participants"`
	Attendance   []MeetingAttendance `gorm:"foreignKey:MeetingID" json:"attendance"`
	Notes        []MeetingNote       `gorm:"foreignKey:MeetingID" json:"notes"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (m *Meeting) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MeetingPlanned
	}
	return nil
}

// StartsAt combines the calendar day of Date, stored as UTC midnight, with
// the HH:MM Time read as wall clock in loc.
func (m *Meeting) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", m.Time)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := m.Date.UTC().Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc), nil
}

// HasParticipant reports whether userID is in the loaded participant list.
func (m *Meeting) HasParticipant(userID uuid.UUID) bool {
	for _, p := range m.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

func (m *Meeting) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.Participants))
	for _, p := range m.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}

type MeetingAttendance struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MeetingID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_meeting_user,priority:1" json:"meeting_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_meeting_user,priority:2" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status     string     `gorm:"size:20;not null" json:"status"`
	MarkedAt   *time.Time `json:"marked_at,omitempty"`
	MarkedByID *uuid.UUID `gorm:"type:uuid" json:"marked_by_id,omitempty"`
	MarkedBy   *User      `gorm:"foreignKey:MarkedByID" json:"marked_by,omitempty"`
}

func (MeetingAttendance) TableName() string {
	return "meeting_attendances"
}

type MeetingNote struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MeetingID uuid.UUID `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
