package handlers

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ActivityPointHandler struct {
	pointService *services.ActivityPointService
}

func NewActivityPointHandler(pointService *services.ActivityPointService) *ActivityPointHandler {
	return &ActivityPointHandler{pointService: pointService}
}

func (h *ActivityPointHandler) Add(c *fiber.Ctx) error {
	var req dto.AddActivityPointRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	p, err := h.pointService.Add(c.UserContext(), actor(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Activity point added", p)
}

func (h *ActivityPointHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateActivityPointRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	p, err := h.pointService.Update(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Activity point updated", p)
}

func (h *ActivityPointHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.pointService.Delete(c.UserContext(), actor(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Activity point deleted", nil)
}

func (h *ActivityPointHandler) History(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	history, err := h.pointService.History(c.UserContext(), actor(c), userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", history)
}

func (h *ActivityPointHandler) Leaderboard(c *fiber.Ctx) error {
	board, err := h.pointService.Leaderboard(c.UserContext(), actor(c))
	if err != nil {
		return fail(c, err)
	}
	return list(c, board, len(board))
}
