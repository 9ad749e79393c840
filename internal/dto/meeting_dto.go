package dto

import "github.com/google/uuid"

type CreateMeetingRequest struct {
	Title        string      `json:"title" validate:"required,max=255"`
	Description  string      `json:"description"`
	Date         string      `json:"date" validate:"required"`
	Time         string      `json:"time" validate:"required,hhmm"`
	Location     string      `json:"location" validate:"required,max=255"`
	Participants []uuid.UUID `json:"participants" validate:"required,min=1"`
	Status       string      `json:"status" validate:"omitempty,oneof=planned completed cancelled"`
}

// UpdateMeetingRequest: a nil or empty Participants keeps the current list.
type UpdateMeetingRequest struct {
	Title        *string     `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string     `json:"description"`
	Date         *string     `json:"date"`
	Time         *string     `json:"time" validate:"omitempty,hhmm"`
	Location     *string     `json:"location" validate:"omitempty,max=255"`
	Participants []uuid.UUID `json:"participants"`
	Status       *string     `json:"status" validate:"omitempty,oneof=planned completed cancelled"`
}

type MarkAttendanceRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Status string    `json:"status" validate:"required,oneof=attended not_attended"`
}

type AddNoteRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type CreateReportFromMeetingRequest struct {
	AssignToUser *uuid.UUID  `json:"assign_to_user"`
	SharedWith   []uuid.UUID `json:"shared_with"`
	IsPrivate    bool        `json:"is_private"`
}
