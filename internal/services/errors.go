package services

import (
	"errors"
	"fmt"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")

	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrMeetingNotFound       = fmt.Errorf("meeting %w", ErrNotFound)
	ErrNoteNotFound          = fmt.Errorf("note %w", ErrNotFound)
	ErrReportNotFound        = fmt.Errorf("work report %w", ErrNotFound)
	ErrAttachmentNotFound    = fmt.Errorf("attachment %w", ErrNotFound)
	ErrMessageNotFound       = fmt.Errorf("message %w", ErrNotFound)
	ErrNotificationNotFound  = fmt.Errorf("notification %w", ErrNotFound)
	ErrSponsorshipNotFound   = fmt.Errorf("sponsorship %w", ErrNotFound)
	ErrActivityPointNotFound = fmt.Errorf("activity point %w", ErrNotFound)
	ErrFileNotFound          = fmt.Errorf("file %w", ErrNotFound)
)

// Actor converts the authenticated user into a policy subject.
func Actor(u *models.User) policy.Subject {
	return policy.Subject{UserID: u.ID, Role: policy.Role(u.Role)}
}

func authorize(s policy.Subject, a policy.Action, r policy.Resource) error {
	if d := policy.Evaluate(s, a, r); !d.Allowed() {
		return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	return nil
}
