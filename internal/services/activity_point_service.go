package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityPointService struct {
	db       *gorm.DB
	validate *validation.Validator
}

func NewActivityPointService(db *gorm.DB, v *validation.Validator) *ActivityPointService {
	return &ActivityPointService{db: db, validate: v}
}

func (s *ActivityPointService) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User", briefUser).
		Preload("AwardedBy", briefUser)
}

func (s *ActivityPointService) Add(ctx context.Context, actor policy.Subject, req *dto.AddActivityPointRequest) (*models.ActivityPoint, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindActivityPoint}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, validation.Fail("date", "date must be a date (YYYY-MM-DD)")
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", req.UserID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}

	p := models.ActivityPoint{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Date:        date,
		Description: strings.TrimSpace(req.Description),
		Points:      req.Points,
		AwardedByID: actor.UserID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("failed to add activity point: %w", err)
	}
	return s.find(ctx, p.ID)
}

func (s *ActivityPointService) find(ctx context.Context, id uuid.UUID) (*models.ActivityPoint, error) {
	var p models.ActivityPoint
	err := s.withRelations(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActivityPointNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ActivityPointService) Update(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.UpdateActivityPointRequest) (*models.ActivityPoint, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindActivityPoint}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		d, err := ParseDate(*req.Date)
		if err != nil {
			return nil, validation.Fail("date", "date must be a date (YYYY-MM-DD)")
		}
		p.Date = d
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Points != nil {
		p.Points = *req.Points
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to update activity point: %w", err)
	}
	return p, nil
}

func (s *ActivityPointService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindActivityPoint}); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&models.ActivityPoint{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrActivityPointNotFound
	}
	return nil
}

type PointHistory struct {
	User        models.UserSummary     `json:"user"`
	TotalPoints int                    `json:"total_points"`
	Count       int                    `json:"count"`
	Points      []models.ActivityPoint `json:"points"`
}

func (s *ActivityPointService) History(ctx context.Context, actor policy.Subject, userID uuid.UUID) (*PointHistory, error) {
	if err := authorize(actor, policy.ActionView, policy.Resource{Kind: policy.KindActivityPoint, OwnerID: userID}); err != nil {
		return nil, err
	}
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	h := PointHistory{User: user.Summary()}
	if err := s.db.WithContext(ctx).
		Preload("AwardedBy", briefUser).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&h.Points).Error; err != nil {
		return nil, err
	}
	for _, p := range h.Points {
		h.TotalPoints += p.Points
	}
	h.Count = len(h.Points)
	return &h, nil
}

type LeaderboardEntry struct {
	models.UserSummary
	TotalPoints   int `json:"total_points"`
	ActivityCount int `json:"activity_count"`
}

type pointTotal struct {
	UserID        uuid.UUID
	TotalPoints   int
	ActivityCount int
}

// Leaderboard ranks users with at least one award by total points.
func (s *ActivityPointService) Leaderboard(ctx context.Context, actor policy.Subject) ([]LeaderboardEntry, error) {
	if err := authorize(actor, policy.ActionList, policy.Resource{Kind: policy.KindActivityPoint}); err != nil {
		return nil, err
	}
	var totals []pointTotal
	if err := s.db.WithContext(ctx).Model(&models.ActivityPoint{}).
		Select("user_id, SUM(points) AS total_points, COUNT(*) AS activity_count").
		Group("user_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return []LeaderboardEntry{}, nil
	}
	ids := make([]uuid.UUID, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.UserID)
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return rankLeaderboard(totals, users), nil
}

// rankLeaderboard joins totals with their users, dropping totals whose user
// no longer exists, and sorts by points descending.
func rankLeaderboard(totals []pointTotal, users []models.User) []LeaderboardEntry {
	byID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	out := make([]LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		u, ok := byID[t.UserID]
		if !ok {
			continue
		}
		out = append(out, LeaderboardEntry{UserSummary: u.Summary(), TotalPoints: t.TotalPoints, ActivityCount: t.ActivityCount})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].ActivityCount > out[j].ActivityCount
	})
	return out
}
