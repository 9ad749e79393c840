package handlers

import (
	"fmt"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/export"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func sendWorkbook(c *fiber.Ctx, wb *services.Workbook) error {
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", wb.Filename))
	return c.Send(wb.Data)
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := services.ParseDate(raw)
	if err != nil {
		return nil, validation.Fail(key, key+" must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

func (h *ExportHandler) WorkReports(c *fiber.Ctx) error {
	f, err := reportFilter(c)
	if err != nil {
		return fail(c, err)
	}
	wb, err := h.exportService.WorkReports(c.UserContext(), actor(c), f)
	if err != nil {
		return fail(c, err)
	}
	return sendWorkbook(c, wb)
}

func (h *ExportHandler) Meetings(c *fiber.Ctx) error {
	f := services.MeetingFilter{Status: c.Query("status")}
	var err error
	if f.From, err = queryDate(c, "start_date"); err != nil {
		return fail(c, err)
	}
	if f.To, err = queryDate(c, "end_date"); err != nil {
		return fail(c, err)
	}
	wb, err := h.exportService.Meetings(c.UserContext(), actor(c), f)
	if err != nil {
		return fail(c, err)
	}
	return sendWorkbook(c, wb)
}

func (h *ExportHandler) Attendance(c *fiber.Ctx) error {
	id, err := paramID(c, "meetingId")
	if err != nil {
		return fail(c, err)
	}
	wb, err := h.exportService.Attendance(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return sendWorkbook(c, wb)
}

func (h *ExportHandler) Productivity(c *fiber.Ctx) error {
	from, err := queryDate(c, "start_date")
	if err != nil {
		return fail(c, err)
	}
	to, err := queryDate(c, "end_date")
	if err != nil {
		return fail(c, err)
	}
	wb, err := h.exportService.Productivity(c.UserContext(), actor(c), from, to)
	if err != nil {
		return fail(c, err)
	}
	return sendWorkbook(c, wb)
}
