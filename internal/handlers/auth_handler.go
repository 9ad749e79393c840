package handlers

import (
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/middleware"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.authService.Profile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	if err := h.authService.ChangePassword(c.UserContext(), middleware.CurrentUser(c).ID, &req); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	if err := h.authService.ForgotPassword(c.UserContext(), &req); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "If the email is registered, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	resp, err := h.authService.ResetPassword(c.UserContext(), c.Params("token"), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Password reset successfully", resp)
}

func (h *AuthHandler) UploadProfilePhoto(c *fiber.Ctx) error {
	up, err := upload(c, "photo", photoLimit)
	if err != nil {
		return fail(c, err)
	}
	if up == nil {
		return fail(c, validation.Fail("photo", "please select a photo"))
	}

	user, err := h.authService.UploadProfilePhoto(c.UserContext(), middleware.CurrentUser(c).ID, up)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Profile photo uploaded", user)
}

// ProfilePhoto is public so image tags can load it without a token.
func (h *AuthHandler) ProfilePhoto(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return fail(c, err)
	}

	f, err := h.authService.ProfilePhoto(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return sendFile(c, f, true)
}

func (h *AuthHandler) DeleteProfilePhoto(c *fiber.Ctx) error {
	if err := h.authService.DeleteProfilePhoto(c.UserContext(), middleware.CurrentUser(c).ID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Profile photo deleted", nil)
}
