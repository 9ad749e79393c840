package dto

import "github.com/google/uuid"

type AddActivityPointRequest struct {
	UserID      uuid.UUID `json:"user_id" validate:"required"`
	Date        string    `json:"date" validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
	Points      int       `json:"points" validate:"required,min=1"`
}

type UpdateActivityPointRequest struct {
	Date        *string `json:"date"`
	Description *string `json:"description" validate:"omitempty,min=1,max=500"`
	Points      *int    `json:"points" validate:"omitempty,min=1"`
}
