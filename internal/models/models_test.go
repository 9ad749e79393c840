package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingStartsAt(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	m := Meeting{Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Time: "14:30"}
	got, err := m.StartsAt(loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 14, 14, 30, 0, 0, loc), got)

	m.Time = "2pm"
	_, err = m.StartsAt(loc)
	assert.Error(t, err)
}

func TestMeetingParticipants(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	m := Meeting{Participants: []User{{ID: a}, {ID: b}}}

	assert.True(t, m.HasParticipant(a))
	assert.False(t, m.HasParticipant(uuid.New()))
	assert.Equal(t, []uuid.UUID{a, b}, m.ParticipantIDs())
}

func TestUserSummary(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Departments: []string{"Software"}}
	s := u.Summary()
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.False(t, s.HasProfilePhoto)
	assert.Equal(t, []string{"Software"}, s.Departments)

	u.ProfilePhoto.BlobKey = "k1"
	assert.True(t, u.Summary().HasProfilePhoto)
}

func TestUserBeforeCreateNormalizes(t *testing.T) {
	u := User{Email: "  Ada@Example.COM "}
	require.NoError(t, u.BeforeCreate(nil))
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEqual(t, uuid.Nil, u.ID)
}

func TestWorkReportDefaults(t *testing.T) {
	r := WorkReport{}
	require.NoError(t, r.BeforeCreate(nil))
	assert.Equal(t, ReportSubmitted, r.Status)
}
