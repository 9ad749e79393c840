package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityPoint struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Points      int       `gorm:"not null" json:"points"`
	AwardedByID uuid.UUID `gorm:"type:uuid;not null" json:"awarded_by_id"`
	AwardedBy   *User     `gorm:"foreignKey:AwardedByID" json:"awarded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *ActivityPoint) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
