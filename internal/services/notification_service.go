package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const notificationPageSize = 50

// Notifier records an in-app notification for a user. Delivery is a side
// effect and never reports failure to the caller.
type Notifier interface {
	Notify(ctx context.Context, n *models.Notification)
}

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// Notify stores n. Callers treat a failure as a side effect: it is logged
// and never fails the operation that triggered it.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		slog.Error("notification create failed",
			"action", "notify",
			"user_id", n.UserID.String(),
			"type", n.Type,
			"error", err,
		)
	}
}

type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) (*NotificationList, error) {
	var list NotificationList
	db := s.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(notificationPageSize).
		Find(&list.Notifications).Error; err != nil {
		return nil, err
	}
	n, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	list.UnreadCount = n
	return &list, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (s *NotificationService) owned(ctx context.Context, actor policy.Subject, action policy.Action, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, action, policy.Resource{Kind: policy.KindNotification, OwnerID: n.UserID}); err != nil {
		// Another user's notification is reported as missing.
		return nil, ErrNotificationNotFound
	}
	return &n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.Notification, error) {
	n, err := s.owned(ctx, actor, policy.ActionRead, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(n).Update("is_read", true).Error; err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *NotificationService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	n, err := s.owned(ctx, actor, policy.ActionDelete, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(n).Error
}
