package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, r io.Reader) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestFailMapsErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validation.Fail("title", "title is required"), fiber.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", validation.Fail("date", "bad")), fiber.StatusBadRequest},
		{"credentials", services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"disabled", services.ErrAccountDisabled, fiber.StatusUnauthorized},
		{"forbidden", fmt.Errorf("%w: admin role required", services.ErrForbidden), fiber.StatusForbidden},
		{"not found", services.ErrMeetingNotFound, fiber.StatusNotFound},
		{"other", errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.False(t, body.Success)
			if tt.want == fiber.StatusInternalServerError {
				assert.Equal(t, "Server error", body.Message)
				assert.Equal(t, "connection reset", body.Error)
			}
		})
	}
}

func TestFailCarriesFieldErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return fail(c, &validation.Error{Fields: map[string]string{"title": "title is required", "time": "time must be HH:MM"}})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	body := decode(t, resp.Body)
	assert.Equal(t, "title is required", body.Errors["title"])
	assert.Len(t, body.Errors, 2)
}

func TestReportFilterParsesQuery(t *testing.T) {
	app := fiber.New()
	var got dto.WorkReportFilter
	app.Get("/", func(c *fiber.Ctx) error {
		f, err := reportFilter(c)
		if err != nil {
			return fail(c, err)
		}
		got = f
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?month=3&year=2024&status=approved", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, dto.WorkReportFilter{Month: 3, Year: 2024, Status: "approved"}, got)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/?week=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/?user_id=42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSendFileDisposition(t *testing.T) {
	f := &services.File{Data: []byte("%PDF-1.4")}
	f.Filename = "offer letter.pdf"
	f.ContentType = "application/pdf"

	app := fiber.New()
	app.Get("/inline", func(c *fiber.Ctx) error { return sendFile(c, f, true) })
	app.Get("/download", func(c *fiber.Ctx) error { return sendFile(c, f, false) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/inline", nil))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, "inline; filename*=UTF-8''offer%20letter.pdf", resp.Header.Get(fiber.HeaderContentDisposition))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/download", nil))
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment;")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func multipartBody(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("content", "see attached"))
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadsDistinguishesMissingFromMalformed(t *testing.T) {
	app := fiber.New(fiber.Config{DisablePreParseMultipartForm: true})
	app.Post("/upload", func(c *fiber.Ctx) error {
		files, err := uploads(c, "attachments", attachmentLimit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"files": len(files)})
	})

	withFile, withFileType := multipartBody(t, "attachments", "agenda.pdf")
	noFile, noFileType := multipartBody(t, "", "")

	tests := []struct {
		name        string
		body        io.Reader
		contentType string
		wantStatus  int
		wantFiles   int
	}{
		{"json body", strings.NewReader(`{"content":"hi"}`), fiber.MIMEApplicationJSON, fiber.StatusOK, 0},
		{"multipart with file", withFile, withFileType, fiber.StatusOK, 1},
		{"multipart without field", noFile, noFileType, fiber.StatusOK, 0},
		{"truncated multipart", strings.NewReader("--xyz\r\nContent-Disposition: form-data; name=\"attachments\"; filename=\"a.pdf\"\r\n\r\npartial"), "multipart/form-data; boundary=xyz", fiber.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload", tt.body)
			req.Header.Set(fiber.HeaderContentType, tt.contentType)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus != fiber.StatusOK {
				body := decode(t, resp.Body)
				assert.Contains(t, body.Errors, "body")
				return
			}
			var got struct {
				Files int `json:"files"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.wantFiles, got.Files)
		})
	}
}
