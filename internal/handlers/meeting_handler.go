package handlers

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MeetingHandler struct {
	meetingService *services.MeetingService
	reportService  *services.WorkReportService
}

func NewMeetingHandler(meetingService *services.MeetingService, reportService *services.WorkReportService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService, reportService: reportService}
}

func (h *MeetingHandler) List(c *fiber.Ctx) error {
	meetings, err := h.meetingService.List(c.UserContext(), actor(c), c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return list(c, meetings, len(meetings))
}

func (h *MeetingHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	m, err := h.meetingService.Get(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", m)
}

func (h *MeetingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMeetingRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	m, err := h.meetingService.Create(c.UserContext(), actor(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Meeting created", m)
}

func (h *MeetingHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateMeetingRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	m, err := h.meetingService.Update(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Meeting updated", m)
}

func (h *MeetingHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.meetingService.Delete(c.UserContext(), actor(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Meeting deleted", nil)
}

func (h *MeetingHandler) MarkAttendance(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.MarkAttendanceRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	attendance, err := h.meetingService.MarkAttendance(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Attendance updated", attendance)
}

func (h *MeetingHandler) AddNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.AddNoteRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	notes, err := h.meetingService.AddNote(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Note added", notes)
}

func (h *MeetingHandler) DeleteNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	noteID, err := paramID(c, "noteId")
	if err != nil {
		return fail(c, err)
	}
	notes, err := h.meetingService.DeleteNote(c.UserContext(), actor(c), id, noteID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Note deleted", notes)
}

func (h *MeetingHandler) Report(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	report, err := h.meetingService.Report(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", report)
}

// CreateReport turns a completed meeting into an approved work report.
func (h *MeetingHandler) CreateReport(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.CreateReportFromMeetingRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return fail(c, err)
		}
	}
	report, err := h.reportService.CreateFromMeeting(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Work report created from meeting", report)
}
