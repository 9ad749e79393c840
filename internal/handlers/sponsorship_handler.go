package handlers

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SponsorshipHandler struct {
	sponsorshipService *services.SponsorshipService
}

func NewSponsorshipHandler(sponsorshipService *services.SponsorshipService) *SponsorshipHandler {
	return &SponsorshipHandler{sponsorshipService: sponsorshipService}
}

func documents(c *fiber.Ctx) (services.SponsorshipDocuments, error) {
	var docs services.SponsorshipDocuments
	var err error
	if docs.PdfReport, err = upload(c, "pdf_report", attachmentLimit); err != nil {
		return docs, err
	}
	if docs.SentEmailScreenshot, err = upload(c, "sent_email_screenshot", attachmentLimit); err != nil {
		return docs, err
	}
	if docs.ResponseEmailScreenshot, err = upload(c, "response_email_screenshot", attachmentLimit); err != nil {
		return docs, err
	}
	return docs, nil
}

func (h *SponsorshipHandler) List(c *fiber.Ctx) error {
	items, err := h.sponsorshipService.List(c.UserContext(), actor(c))
	if err != nil {
		return fail(c, err)
	}
	return list(c, items, len(items))
}

func (h *SponsorshipHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	sp, err := h.sponsorshipService.Get(c.UserContext(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", sp)
}

func (h *SponsorshipHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSponsorshipRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	docs, err := documents(c)
	if err != nil {
		return fail(c, err)
	}
	sp, err := h.sponsorshipService.Create(c.UserContext(), actor(c), &req, docs)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Sponsorship created", sp)
}

func (h *SponsorshipHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.UpdateSponsorshipRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	docs, err := documents(c)
	if err != nil {
		return fail(c, err)
	}
	sp, err := h.sponsorshipService.Update(c.UserContext(), actor(c), id, &req, docs)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Sponsorship updated", sp)
}

func (h *SponsorshipHandler) Decide(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req dto.SponsorshipDecisionRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	sp, err := h.sponsorshipService.Decide(c.UserContext(), actor(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Decision saved", sp)
}

func (h *SponsorshipHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.sponsorshipService.Delete(c.UserContext(), actor(c), id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Sponsorship deleted", nil)
}

// Document returns a handler streaming the named sponsorship file. The PDF
// downloads, screenshots open inline.
func (h *SponsorshipHandler) Document(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		f, err := h.sponsorshipService.Document(c.UserContext(), actor(c), id, name)
		if err != nil {
			return fail(c, err)
		}
		return sendFile(c, f, name != services.DocPdfReport)
	}
}
