package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/config"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) ActiveByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, services.ErrUnauthorized
	}
	if !u.IsActive {
		return nil, services.ErrAccountDisabled
	}
	return u, nil
}

func sign(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newApp(users fakeUsers, extra ...fiber.Handler) *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	chain := append([]fiber.Handler{JWTProtected(cfg), Authenticate(users)}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	app.Get("/me", chain...)
	return app
}

func TestAuthenticate(t *testing.T) {
	active := &models.User{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleUser, IsActive: true}
	inactive := &models.User{ID: uuid.New(), Email: "bob@example.com", Role: models.RoleUser}
	users := fakeUsers{active.ID: active, inactive.ID: inactive}
	hour := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"malformed", "Bearer nope", fiber.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, active.ID.String(), time.Now().Add(-time.Minute)), fiber.StatusUnauthorized},
		{"bad subject", "Bearer " + sign(t, "not-a-uuid", hour), fiber.StatusUnauthorized},
		{"unknown user", "Bearer " + sign(t, uuid.NewString(), hour), fiber.StatusUnauthorized},
		{"inactive user", "Bearer " + sign(t, inactive.ID.String(), hour), fiber.StatusUnauthorized},
		{"active user", "Bearer " + sign(t, active.ID.String(), hour), fiber.StatusOK},
	}
	app := newApp(users)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Email: "root@example.com", Role: models.RoleAdmin, IsActive: true}
	member := &models.User{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleUser, IsActive: true}
	app := newApp(fakeUsers{admin.ID: admin, member.ID: member}, AdminOnly())
	hour := time.Now().Add(time.Hour)

	for user, want := range map[*models.User]int{admin: fiber.StatusOK, member: fiber.StatusForbidden} {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+sign(t, user.ID.String(), hour))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, user.Email)
	}
}

func TestCORSExposesDownloadHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "https://reports.example.com"}), SecurityHeaders())
	app.Get("/file", func(c *fiber.Ctx) error { return c.SendString("x") })

	req := httptest.NewRequest(fiber.MethodGet, "/file", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://reports.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "https://reports.example.com", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlExposeHeaders), fiber.HeaderContentDisposition)
	assert.Equal(t, "nosniff", resp.Header.Get(fiber.HeaderXContentTypeOptions))
	assert.Equal(t, "DENY", resp.Header.Get(fiber.HeaderXFrameOptions))
}
