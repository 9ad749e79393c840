package services

import (
	"testing"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankLeaderboard(t *testing.T) {
	ada := models.User{ID: uuid.New(), FirstName: "Ada", Departments: []string{"Software"}, ProfilePhoto: models.FileMeta{BlobKey: "k"}}
	bob := models.User{ID: uuid.New(), FirstName: "Bob"}
	gone := uuid.New()

	got := rankLeaderboard([]pointTotal{
		{UserID: bob.ID, TotalPoints: 5, ActivityCount: 1},
		{UserID: gone, TotalPoints: 50, ActivityCount: 9},
		{UserID: ada.ID, TotalPoints: 12, ActivityCount: 3},
	}, []models.User{bob, ada})

	require.Len(t, got, 2)
	assert.Equal(t, "Ada", got[0].FirstName)
	assert.Equal(t, 12, got[0].TotalPoints)
	assert.True(t, got[0].HasProfilePhoto)
	assert.Equal(t, "Bob", got[1].FirstName)
	assert.False(t, got[1].HasProfilePhoto)
}

func TestRankLeaderboardTieBreaksOnCount(t *testing.T) {
	a := models.User{ID: uuid.New(), FirstName: "A"}
	b := models.User{ID: uuid.New(), FirstName: "B"}
	got := rankLeaderboard([]pointTotal{
		{UserID: a.ID, TotalPoints: 10, ActivityCount: 1},
		{UserID: b.ID, TotalPoints: 10, ActivityCount: 4},
	}, []models.User{a, b})
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].FirstName)
}
