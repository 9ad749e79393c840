package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"sender_id"`
	Sender      *User               `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Receiver    *User               `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Subject     string              `gorm:"size:255;not null" json:"subject"`
	Content     string              `gorm:"type:text;not null" json:"content"`
	IsRead      bool                `gorm:"not null;index" json:"is_read"`
	ReadAt      *time.Time          `json:"read_at,omitempty"`
	Attachments []MessageAttachment `gorm:"foreignKey:MessageID" json:"attachments"`
	CreatedAt   time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type MessageAttachment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;index" json:"message_id"`
	FileMeta
	CreatedAt time.Time `json:"created_at"`
}
