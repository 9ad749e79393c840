package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SponsorshipPending   = "pending"
	SponsorshipContacted = "contacted"
	SponsorshipResponded = "responded"
	SponsorshipApproved  = "approved"
	SponsorshipRejected  = "rejected"
)

type Sponsorship struct {
	ID                      uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyName             string                    `gorm:"size:255;not null" json:"company_name"`
	CompanyEmail            string                    `gorm:"size:255;not null" json:"company_email"`
	RequestDescription      string                    `gorm:"type:text;not null" json:"request_description"`
	Notes                   string                    `gorm:"type:text" json:"notes"`
	PdfReport               FileMeta                  `gorm:"embedded;embeddedPrefix:pdf_report_" json:"pdf_report"`
	SentEmailScreenshot     FileMeta                  `gorm:"embedded;embeddedPrefix:sent_email_" json:"sent_email_screenshot"`
	ResponseEmailScreenshot FileMeta                  `gorm:"embedded;embeddedPrefix:response_email_" json:"response_email_screenshot"`
	Status                  string                    `gorm:"size:20;not null;index" json:"status"`
	FinalDecision           *string                   `gorm:"size:20" json:"final_decision"`
	StatusHistory           []SponsorshipStatusChange `gorm:"foreignKey:SponsorshipID" json:"status_history"`
	CreatedByID             uuid.UUID                 `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy               *User                     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt               time.Time                 `json:"created_at"`
	UpdatedAt               time.Time                 `json:"updated_at"`
}

func (s *Sponsorship) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SponsorshipPending
	}
	return nil
}

// SponsorshipStatusChange is an append-only history row.
type SponsorshipStatusChange struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SponsorshipID uuid.UUID `gorm:"type:uuid;not null;index" json:"sponsorship_id"`
	Status        string    `gorm:"size:20;not null" json:"status"`
	ChangedByID   uuid.UUID `gorm:"type:uuid;not null" json:"changed_by_id"`
	ChangedBy     *User     `gorm:"foreignKey:ChangedByID" json:"changed_by,omitempty"`
	ChangedAt     time.Time `gorm:"not null" json:"changed_at"`
	Note          string    `gorm:"type:text" json:"note"`
}
