package services

import (
	"context"
	"testing"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageNotificationTargetsReceiver(t *testing.T) {
	sender := &models.User{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}
	msg := &models.Message{ID: uuid.New(), SenderID: sender.ID, ReceiverID: uuid.New(), Subject: "Budget"}

	n := messageNotification(sender, msg)
	assert.Equal(t, msg.ReceiverID, n.UserID)
	assert.Equal(t, models.NotifyMessageReceived, n.Type)
	assert.Equal(t, "Ada Lovelace sent you a message: Budget", n.Message)
	require.NotNil(t, n.RelatedMessageID)
	assert.Equal(t, msg.ID, *n.RelatedMessageID)
}

func TestSendToSelfIsRejected(t *testing.T) {
	rec := &recordingNotifier{}
	svc := NewMessageService(nil, validation.New(), storage.NewMemoryStore(), rec)
	me := &models.User{ID: uuid.New()}

	_, err := svc.Send(context.Background(), me, &dto.SendMessageRequest{
		ReceiverID: me.ID.String(),
		Content:    "hi",
	}, nil)

	assert.True(t, validation.IsValidation(err))
	assert.Empty(t, rec.sent)
}

func TestSendCreatesOneNotification(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	alice, bob := seedUser(t, db, "Alice"), seedUser(t, db, "Bob")
	rec := &recordingNotifier{}
	svc := NewMessageService(db, validation.New(), storage.NewMemoryStore(), rec)

	msg, err := svc.Send(ctx, alice, &dto.SendMessageRequest{ReceiverID: bob.ID.String(), Content: "agenda attached"}, nil)
	require.NoError(t, err)

	assert.Equal(t, defaultMessageSubject, msg.Subject)
	assert.False(t, msg.IsRead)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, bob.ID, rec.sent[0].UserID)
	assert.Equal(t, models.NotifyMessageReceived, rec.sent[0].Type)
	assert.Equal(t, msg.ID, *rec.sent[0].RelatedMessageID)
}

func TestSendToUnknownReceiver(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "Alice")
	rec := &recordingNotifier{}
	svc := NewMessageService(db, validation.New(), storage.NewMemoryStore(), rec)

	_, err := svc.Send(context.Background(), alice, &dto.SendMessageRequest{ReceiverID: uuid.NewString(), Content: "hello"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, rec.sent)
}

func TestConversationMarksIncomingRead(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	alice, bob := seedUser(t, db, "Alice"), seedUser(t, db, "Bob")
	svc := NewMessageService(db, validation.New(), storage.NewMemoryStore(), &recordingNotifier{})

	send := func(from, to *models.User, content string) *models.Message {
		m, err := svc.Send(ctx, from, &dto.SendMessageRequest{ReceiverID: to.ID.String(), Content: content}, nil)
		require.NoError(t, err)
		return m
	}
	send(alice, bob, "first")
	send(alice, bob, "second")
	reply := send(bob, alice, "reply")

	thread, err := svc.Conversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	for _, m := range thread {
		if m.SenderID == alice.ID {
			assert.True(t, m.IsRead, m.Content)
			assert.NotNil(t, m.ReadAt)
		}
	}

	var stored models.Message
	require.NoError(t, db.First(&stored, "id = ?", reply.ID).Error)
	assert.False(t, stored.IsRead)

	unread, err := svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
	unread, err = svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}
