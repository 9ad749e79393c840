package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReportDraft     = "draft"
	ReportSubmitted = "submitted"
	ReportApproved  = "approved"
	ReportRejected  = "rejected"
)

// CountedReportStatuses are the statuses that contribute to hour totals.
var CountedReportStatuses = []string{ReportSubmitted, ReportApproved}

type WorkReport struct {
	ID              uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	User            *User                  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	MeetingID       *uuid.UUID             `gorm:"type:uuid;index" json:"meeting_id,omitempty"`
	Meeting         *Meeting               `gorm:"foreignKey:MeetingID" json:"meeting,omitempty"`
	Date            time.Time              `gorm:"not null;index" json:"date"`
	WorkDescription string                 `gorm:"type:text;not null" json:"work_description"`
	StartTime       string                 `gorm:"size:5;not null" json:"start_time"`
	EndTime         string                 `gorm:"size:5;not null" json:"end_time"`
	HoursWorked     float64                `gorm:"not null" json:"hours_worked"`
	Week            int                    `gorm:"index:idx_work_reports_period,priority:2" json:"week"`
	Year            int                    `gorm:"index:idx_work_reports_period,priority:1" json:"year"`
	Project         string                 `gorm:"size:255" json:"project"`
	Notes           string                 `gorm:"type:text" json:"notes"`
	Status          string                 `gorm:"size:20;not null;index" json:"status"`
	RejectionReason string                 `gorm:"type:text" json:"rejection_reason,omitempty"`
	SharedWith      []User                 `gorm:"many2many:work_report_shares" json:"shared_with"`
	IsPrivate       bool                   `gorm:"not null" json:"is_private"`
	Attachments     []WorkReportAttachment `gorm:"foreignKey:WorkReportID" json:"attachments"`
	CreatedByID     uuid.UUID              `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy       *User                  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func (r *WorkReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReportSubmitted
	}
	return nil
}

func (r *WorkReport) SharedWithIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.SharedWith))
	for _, u := range r.SharedWith {
		ids = append(ids, u.ID)
	}
	return ids
}

type WorkReportAttachment struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"work_report_id"`
	FileMeta
	CreatedAt time.Time `json:"created_at"`
}
