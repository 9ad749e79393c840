package handlers

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/middleware"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send accepts JSON or a multipart form with optional attachments.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	files, err := uploads(c, "attachments", attachmentLimit)
	if err != nil {
		return fail(c, err)
	}
	msg, err := h.messageService.Send(c.UserContext(), middleware.CurrentUser(c), &req, files)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Message sent", msg)
}

func (h *MessageHandler) Inbox(c *fiber.Ctx) error {
	in, err := h.messageService.Inbox(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return list(c, in, len(in.Messages))
}

func (h *MessageHandler) Sent(c *fiber.Ctx) error {
	msgs, err := h.messageService.Sent(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return list(c, msgs, len(msgs))
}

func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	other, err := paramID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	msgs, err := h.messageService.Conversation(c.UserContext(), middleware.CurrentUser(c).ID, other)
	if err != nil {
		return fail(c, err)
	}
	return list(c, msgs, len(msgs))
}

func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	msg, err := h.messageService.MarkRead(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Message marked as read", msg)
}

func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.messageService.Delete(c.UserContext(), actor(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Message deleted", nil)
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.messageService.UnreadCount(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"unread_count": n})
}

func (h *MessageHandler) UnreadBySender(c *fiber.Ctx) error {
	rows, err := h.messageService.UnreadBySender(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return list(c, rows, len(rows))
}

func (h *MessageHandler) AvailableUsers(c *fiber.Ctx) error {
	users, err := h.messageService.AvailableUsers(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return list(c, users, len(users))
}

func (h *MessageHandler) Attachment(c *fiber.Ctx) error {
	id, err := paramID(c, "messageId")
	if err != nil {
		return fail(c, err)
	}
	attachmentID, err := paramID(c, "attachmentId")
	if err != nil {
		return fail(c, err)
	}
	f, err := h.messageService.Attachment(c.UserContext(), actor(c), id, attachmentID)
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, f, false)
}
