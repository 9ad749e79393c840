package services

import (
	"context"
	"testing"

	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDeleteRejectsOwnAccount(t *testing.T) {
	svc := NewUserService(nil, validation.New())
	admin := policy.Subject{UserID: uuid.New(), Role: policy.RoleAdmin}

	err := svc.Delete(context.Background(), admin, admin.UserID)
	require.Error(t, err)

	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "id")
}

func TestUserDeleteRequiresAdmin(t *testing.T) {
	svc := NewUserService(nil, validation.New())
	member := policy.Subject{UserID: uuid.New(), Role: policy.RoleUser}

	err := svc.Delete(context.Background(), member, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}
