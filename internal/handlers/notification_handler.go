package handlers

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/middleware"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	res, err := h.notificationService.List(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return list(c, res, len(res.Notifications))
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.notificationService.UnreadCount(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"unread_count": n})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	n, err := h.notificationService.MarkRead(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Notification marked as read", n)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.notificationService.MarkAllRead(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "All notifications marked as read", fiber.Map{"updated": n})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.notificationService.Delete(c.UserContext(), actor(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Notification deleted", nil)
}
