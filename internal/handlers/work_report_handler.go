package handlers

import (
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type WorkReportHandler struct {
	reportService *services.WorkReportService
	now           func() time.Time
}

func NewWorkReportHandler(reportService *services.WorkReportService) *WorkReportHandler {
	return &WorkReportHandler{reportService: reportService, now: time.Now}
}

func (h *WorkReportHandler) List(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.reportService.List(c.UserContext(), actor(c), f)
	if err != nil {
		return fail(c, err)
	}
	n := len(res.Reports)
	return c.JSON(dto.Response{Success: true, Count: &n, Data: res})
}

func (h *WorkReportHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	r, err := h.reportService.Get(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", r)
}

func (h *WorkReportHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWorkReportRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	r, err := h.reportService.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Work report created", r)
}

func (h *WorkReportHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateWorkReportRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	r, err := h.reportService.Update(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Work report updated", r)
}

func (h *WorkReportHandler) Submit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	r, err := h.reportService.Submit(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Work report submitted", r)
}

func (h *WorkReportHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.reportService.Delete(c.UserContext(), actor(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Work report deleted", nil)
}

func (h *WorkReportHandler) AddAttachments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	files, err := uploads(c, "attachments", attachmentLimit)
	if err != nil {
		return fail(c, err)
	}
	if len(files) == 0 {
		return fail(c, validation.Fail("attachments", "please select at least one file"))
	}
	r, err := h.reportService.AddAttachments(c.UserContext(), actor(c), id, files)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Attachments uploaded", r)
}

func (h *WorkReportHandler) Attachment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	attachmentID, err := paramID(c, "attachmentId")
	if err != nil {
		return fail(c, err)
	}
	f, err := h.reportService.Attachment(c.UserContext(), actor(c), id, attachmentID)
	if err != nil {
		return fail(c, err)
	}
	return sendFile(c, f, false)
}

func (h *WorkReportHandler) DeleteAttachment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	attachmentID, err := paramID(c, "attachmentId")
	if err != nil {
		return fail(c, err)
	}
	if err := h.reportService.DeleteAttachment(c.UserContext(), actor(c), id, attachmentID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Attachment deleted", nil)
}

// Weekly defaults to the current week when neither week nor year is given.
func (h *WorkReportHandler) Weekly(c *fiber.Ctx) error {
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return fail(c, err)
	}
	week, err := queryInt(c, "week")
	if err != nil {
		return fail(c, err)
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return fail(c, err)
	}
	if week == 0 && year == 0 {
		week, year = services.WeekOfYear(h.now().UTC())
	}
	summary, err := h.reportService.Weekly(c.UserContext(), actor(c), userID, week, year)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", summary)
}

// Monthly defaults to the current month when neither month nor year is given.
func (h *WorkReportHandler) Monthly(c *fiber.Ctx) error {
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return fail(c, err)
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return fail(c, err)
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return fail(c, err)
	}
	if month == 0 && year == 0 {
		now := h.now().UTC()
		month, year = int(now.Month()), now.Year()
	}
	summary, err := h.reportService.Monthly(c.UserContext(), actor(c), userID, month, year)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", summary)
}

func (h *WorkReportHandler) AllUsers(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return fail(c, err)
	}
	summary, err := h.reportService.AllUsers(c.UserContext(), actor(c), f.Week, f.Month, f.Year)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", summary)
}
