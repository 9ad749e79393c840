package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotifyMessageReceived = "message_received"
	NotifyReportApproved  = "report_approved"
	NotifyReportRejected  = "report_rejected"
	NotifyReportShared    = "report_shared"
)

type Notification struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Type             string     `gorm:"size:30;not null" json:"type"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Message          string     `gorm:"type:text;not null" json:"message"`
	RelatedReportID  *uuid.UUID `gorm:"type:uuid" json:"related_report_id,omitempty"`
	RelatedMeetingID *uuid.UUID `gorm:"type:uuid" json:"related_meeting_id,omitempty"`
	RelatedMessageID *uuid.UUID `gorm:"type:uuid" json:"related_message_id,omitempty"`
	IsRead           bool       `gorm:"not null;index:idx_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
