package dto

type CreateUserRequest struct {
	FirstName   string   `json:"first_name" validate:"required,max=100"`
	LastName    string   `json:"last_name" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Role        string   `json:"role" validate:"omitempty,oneof=admin user"`
	Departments []string `json:"departments" validate:"dive,department"`
	IsActive    *bool    `json:"is_active"`
	BirthDate   string   `json:"birth_date"`
	BirthPlace  string   `json:"birth_place" validate:"max=100"`
	NationalID  string   `json:"national_id" validate:"omitempty,tr_national_id"`
	IBAN        string   `json:"iban" validate:"omitempty,tr_iban"`
}

// UpdateUserRequest fields are optional; nil leaves the stored value alone.
type UpdateUserRequest struct {
	FirstName   *string   `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName    *string   `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email       *string   `json:"email" validate:"omitempty,email"`
	Password    *string   `json:"password" validate:"omitempty,min=6"`
	Role        *string   `json:"role" validate:"omitempty,oneof=admin user"`
	Departments *[]string `json:"departments" validate:"omitempty,dive,department"`
	IsActive    *bool     `json:"is_active"`
	BirthDate   *string   `json:"birth_date"`
	BirthPlace  *string   `json:"birth_place" validate:"omitempty,max=100"`
	NationalID  *string   `json:"national_id" validate:"omitempty,tr_national_id"`
	IBAN        *string   `json:"iban" validate:"omitempty,tr_iban"`
}
