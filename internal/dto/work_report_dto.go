package dto

import "github.com/google/uuid"

type CreateWorkReportRequest struct {
	UserID          *uuid.UUID  `json:"user_id"` // admin only: file on behalf of another user
	Date            string      `json:"date" validate:"required"`
	WorkDescription string      `json:"work_description" validate:"required"`
	StartTime       string      `json:"start_time" validate:"required,hhmm"`
	EndTime         string      `json:"end_time" validate:"required,hhmm"`
	Project         string      `json:"project" validate:"max=255"`
	Notes           string      `json:"notes"`
	Status          string      `json:"status" validate:"omitempty,oneof=draft submitted"`
	SharedWith      []uuid.UUID `json:"shared_with"`
	IsPrivate       *bool       `json:"is_private"`
}

type UpdateWorkReportRequest struct {
	Date            *string      `json:"date"`
	WorkDescription *string      `json:"work_description" validate:"omitempty,min=1"`
	StartTime       *string      `json:"start_time" validate:"omitempty,hhmm"`
	EndTime         *string      `json:"end_time" validate:"omitempty,hhmm"`
	Project         *string      `json:"project" validate:"omitempty,max=255"`
	Notes           *string      `json:"notes"`
	Status          *string      `json:"status" validate:"omitempty,oneof=draft submitted approved rejected"`
	RejectionReason *string      `json:"rejection_reason"`
	SharedWith      *[]uuid.UUID `json:"shared_with"`
	IsPrivate       *bool        `json:"is_private"`
}

// TouchesReview reports whether the request sets any admin-only field.
func (r *UpdateWorkReportRequest) TouchesReview() bool {
	return r.Status != nil || r.SharedWith != nil || r.IsPrivate != nil
}

// TouchesPeriod reports whether hours and week must be recomputed.
func (r *UpdateWorkReportRequest) TouchesPeriod() bool {
	return r.Date != nil || r.StartTime != nil || r.EndTime != nil
}

type WorkReportFilter struct {
	UserID *uuid.UUID
	Week   int
	Year   int
	Month  int
	Status string
}
