package middleware

import (
	"context"
	"errors"

	"github.com/aleynaerrsln/meeting-management-system/internal/config"
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const currentUserKey = "currentUser"

// UserResolver loads the active account behind a token subject.
type UserResolver interface {
	ActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Message: msg})
}

// JWTProtected verifies the bearer token and stores it under Locals("user").
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, "Not authorized, invalid or expired token")
		},
	})
}

// Authenticate resolves the token subject to an active user and stores it
// for CurrentUser. It must run after JWTProtected.
func Authenticate(users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c, "Not authorized, no token")
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c, "Not authorized, invalid claims")
		}
		sub, err := claims.GetSubject()
		if err != nil {
			return unauthorized(c, "Not authorized, invalid claims")
		}
		id, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c, "Not authorized, invalid claims")
		}

		user, err := users.ActiveByID(c.UserContext(), id)
		switch {
		case errors.Is(err, services.ErrAccountDisabled):
			return unauthorized(c, "Your account has been deactivated")
		case errors.Is(err, services.ErrUnauthorized):
			return unauthorized(c, "Not authorized, user not found")
		case err != nil:
			return err
		}
		c.Locals(currentUserKey, user)
		c.Locals("user_id", user.ID.String())
		return c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(currentUserKey).(*models.User)
	return u
}
