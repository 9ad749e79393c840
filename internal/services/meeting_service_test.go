package services

import (
	"testing"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderedLikeKeepsRequestOrder(t *testing.T) {
	a, b, c, unknown := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	got := orderedLike([]uuid.UUID{c, unknown, a, c, b}, []uuid.UUID{a, b, c})
	assert.Equal(t, []uuid.UUID{c, a, b}, got)
}

func TestMeetingResourceMembers(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	owner := uuid.New()
	m := &models.Meeting{CreatedByID: owner, Participants: []models.User{{ID: a}, {ID: b}}}

	r := meetingResource(m)
	assert.Equal(t, owner, r.OwnerID)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, r.Members)
}
