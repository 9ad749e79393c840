package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/url"
	"strconv"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/middleware"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const (
	photoLimit      = 5 << 20
	attachmentLimit = 10 << 20
)

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(dto.Response{Success: true, Message: message, Data: data})
}

func list(c *fiber.Ctx, data interface{}, n int) error {
	return c.JSON(dto.Response{Success: true, Count: &n, Data: data})
}

// fail maps a service error onto the status taxonomy. Server errors echo the
// underlying message.
func fail(c *fiber.Ctx, err error) error {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: ve.Error(), Errors: ve.Fields})
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDisabled):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Message: err.Error()})
	}

	slog.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"user_id", c.Locals("user_id"),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Message: "Server error", Error: err.Error()})
}

// actor returns the policy subject of the authenticated user. Routes that
// call it always run behind middleware.Authenticate.
func actor(c *fiber.Ctx) policy.Subject {
	return services.Actor(middleware.CurrentUser(c))
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return validation.Fail("body", "Invalid request body")
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, validation.Fail(name, "invalid id")
	}
	return id, nil
}

// queryInt returns 0 when key is absent and a validation error when it is
// not a number.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.Fail(key, key+" must be a number")
	}
	return n, nil
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, validation.Fail(key, "invalid id")
	}
	return &id, nil
}

func reportFilter(c *fiber.Ctx) (dto.WorkReportFilter, error) {
	var f dto.WorkReportFilter
	var err error
	if f.UserID, err = queryUUID(c, "user_id"); err != nil {
		return f, err
	}
	if f.Week, err = queryInt(c, "week"); err != nil {
		return f, err
	}
	if f.Month, err = queryInt(c, "month"); err != nil {
		return f, err
	}
	if f.Year, err = queryInt(c, "year"); err != nil {
		return f, err
	}
	f.Status = c.Query("status")
	return f, nil
}

func readFile(fh *multipart.FileHeader, field string, limit int64) (*services.Upload, error) {
	if fh.Size > limit {
		return nil, validation.Fail(field, fmt.Sprintf("file %s exceeds %d MB", fh.Filename, limit>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, validation.Fail(field, fmt.Sprintf("file %s exceeds %d MB", fh.Filename, limit>>20))
	}
	return &services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// multipartForm returns the parsed form, or nil when the request is not
// multipart. A body that claims multipart but does not parse is a 400.
func multipartForm(c *fiber.Ctx) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return nil, nil
	}
	if err != nil {
		return nil, validation.Fail("body", "malformed multipart body: "+err.Error())
	}
	return form, nil
}

// uploads reads every file under field. An absent field yields no uploads.
func uploads(c *fiber.Ctx, field string, limit int64) ([]*services.Upload, error) {
	form, err := multipartForm(c)
	if err != nil || form == nil {
		return nil, err
	}
	headers := form.File[field]
	out := make([]*services.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readFile(fh, field, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}

// upload reads the first file under field, or nil when none was sent.
func upload(c *fiber.Ctx, field string, limit int64) (*services.Upload, error) {
	form, err := multipartForm(c)
	if err != nil || form == nil {
		return nil, err
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	return readFile(headers[0], field, limit)
}

// sendFile streams a stored file. Inline files open in the browser, the
// rest download as attachments.
func sendFile(c *fiber.Ctx, f *services.File, inline bool) error {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename*=UTF-8''%s", disposition, url.PathEscape(f.Filename)))
	return c.Send(f.Data)
}
