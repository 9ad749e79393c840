package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Departments a user can belong to.
var Departments = []string{"Software", "Electrical", "Mechanical", "Design", "Management", "Marketing"}

type User struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName    string                      `gorm:"size:100;not null" json:"first_name"`
	LastName     string                      `gorm:"size:100;not null" json:"last_name"`
	Email        string                      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password     string                      `gorm:"not null" json:"-"`
	Role         string                      `gorm:"size:20;not null" json:"role"`
	Departments  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"departments"`
	IsActive     bool                        `gorm:"not null" json:"is_active"`
	BirthDate    *time.Time                  `json:"birth_date,omitempty"`
	BirthPlace   string                      `gorm:"size:100" json:"birth_place,omitempty"`
	NationalID   *string                     `gorm:"size:11;uniqueIndex" json:"national_id,omitempty"`
	IBAN         *string                     `gorm:"size:34;uniqueIndex" json:"iban,omitempty"`
	ProfilePhoto FileMeta                    `gorm:"embedded;embeddedPrefix:profile_photo_" json:"profile_photo"`
	LastLogin    *time.Time                  `json:"last_login,omitempty"`

	ResetPasswordToken  *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserSummary is the public projection of a user embedded in other payloads.
type UserSummary struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	Departments     []string  `json:"departments"`
	HasProfilePhoto bool      `json:"has_profile_photo"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Departments:     []string(u.Departments),
		HasProfilePhoto: u.ProfilePhoto.Present(),
	}
}
