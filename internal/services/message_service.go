package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMessageSubject = "Message"

type MessageService struct {
	db       *gorm.DB
	validate *validation.Validator
	blobs    storage.BlobStore
	notifier Notifier
	now      func() time.Time
}

func NewMessageService(db *gorm.DB, v *validation.Validator, blobs storage.BlobStore, notifier Notifier) *MessageService {
	return &MessageService{db: db, validate: v, blobs: blobs, notifier: notifier, now: nowUTC}
}

func (s *MessageService) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Sender", briefUser).
		Preload("Receiver", briefUser).
		Preload("Attachments")
}

// messageResource treats the receiver as owner and both parties as members.
func messageResource(m *models.Message) policy.Resource {
	return policy.Resource{
		Kind:    policy.KindMessage,
		OwnerID: m.ReceiverID,
		Members: []uuid.UUID{m.SenderID, m.ReceiverID},
	}
}

func (s *MessageService) Send(ctx context.Context, sender *models.User, req *dto.SendMessageRequest, uploads []*Upload) (*models.Message, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return nil, validation.Fail("receiver_id", "receiver_id must be a valid UUID")
	}
	if receiverID == sender.ID {
		return nil, validation.Fail("receiver_id", "you cannot send a message to yourself")
	}
	var receiver models.User
	err = s.db.WithContext(ctx).First(&receiver, "id = ?", receiverID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("receiver %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultMessageSubject
	}
	msg := models.Message{
		ID:         uuid.New(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Subject:    subject,
		Content:    req.Content,
	}
	for _, up := range uploads {
		meta, err := storeUpload(ctx, s.blobs, up, s.now())
		if err != nil {
			s.discard(ctx, msg.Attachments)
			return nil, err
		}
		msg.Attachments = append(msg.Attachments, models.MessageAttachment{ID: uuid.New(), MessageID: msg.ID, FileMeta: meta})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&msg).Error; err != nil {
			return err
		}
		if len(msg.Attachments) > 0 {
			return tx.Create(&msg.Attachments).Error
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, msg.Attachments)
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.notifier.Notify(ctx, messageNotification(sender, &msg))

	var out models.Message
	if err := s.withRelations(ctx).First(&out, "id = ?", msg.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *MessageService) discard(ctx context.Context, rows []models.MessageAttachment) {
	for _, a := range rows {
		discardBlob(ctx, s.blobs, a.FileMeta)
	}
}

func messageNotification(sender *models.User, msg *models.Message) *models.Notification {
	id := msg.ID
	return &models.Notification{
		UserID:           msg.ReceiverID,
		Type:             models.NotifyMessageReceived,
		Title:            "New message",
		Message:          fmt.Sprintf("%s sent you a message: %s", sender.FullName(), msg.Subject),
		RelatedMessageID: &id,
	}
}

type Inbox struct {
	Messages    []models.Message `json:"messages"`
	UnreadCount int64            `json:"unread_count"`
}

func (s *MessageService) Inbox(ctx context.Context, userID uuid.UUID) (*Inbox, error) {
	var in Inbox
	if err := s.withRelations(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Find(&in.Messages).Error; err != nil {
		return nil, err
	}
	n, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.UnreadCount = n
	return &in, nil
}

func (s *MessageService) Sent(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := s.withRelations(ctx).
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&msgs).Error
	return msgs, err
}

// Conversation returns the messages exchanged with other in chronological
// order and marks the ones other sent to userID as read.
func (s *MessageService) Conversation(ctx context.Context, userID, other uuid.UUID) ([]models.Message, error) {
	now := s.now()
	if err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", other, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	var msgs []models.Message
	err := s.withRelations(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, other, other, userID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (s *MessageService) find(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	err := s.withRelations(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MessageService) MarkRead(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.Message, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionRead, messageResource(m)); err != nil {
		return nil, err
	}
	if m.IsRead {
		return m, nil
	}
	now := s.now()
	if err := s.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, err
	}
	m.IsRead = true
	m.ReadAt = &now
	return m, nil
}

// Delete removes the message for both parties.
func (s *MessageService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	m, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, messageResource(m)); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", m.ID).Delete(&models.MessageAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, "id = ?", m.ID).Error
	})
	if err != nil {
		return err
	}
	s.discard(ctx, m.Attachments)
	return nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

type SenderUnread struct {
	SenderID uuid.UUID `json:"sender_id"`
	Count    int64     `json:"count"`
}

// UnreadBySender groups the unread messages to userID by sender.
func (s *MessageService) UnreadBySender(ctx context.Context, userID uuid.UUID) ([]SenderUnread, error) {
	var rows []SenderUnread
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error
	return rows, err
}

// AvailableUsers lists everyone the user can write to.
func (s *MessageService) AvailableUsers(ctx context.Context, userID uuid.UUID) ([]models.UserSummary, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("id <> ? AND is_active = ?", userID, true).
		Order("first_name, last_name").
		Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

func (s *MessageService) Attachment(ctx context.Context, actor policy.Subject, id, attachmentID uuid.UUID) (*File, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, messageResource(m)); err != nil {
		return nil, err
	}
	for _, a := range m.Attachments {
		if a.ID == attachmentID {
			return loadFile(ctx, s.blobs, a.FileMeta)
		}
	}
	return nil, ErrAttachmentNotFound
}
