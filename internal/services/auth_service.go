package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/config"
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/mail"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	db        *gorm.DB
	cfg       *config.Config
	validate  *validation.Validator
	blobs     storage.BlobStore
	mailer    mail.Mailer
	templates mail.Templates
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, cfg *config.Config, v *validation.Validator, blobs storage.BlobStore, mailer mail.Mailer, templates mail.Templates) *AuthService {
	return &AuthService{
		db:        db,
		cfg:       cfg,
		validate:  v,
		blobs:     blobs,
		mailer:    mailer,
		templates: templates,
		now:       nowUTC,
	}
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
		slog.Warn("last login update failed", "user_id", user.ID.String(), "error", err)
	}
	user.LastLogin = &now

	return s.issue(&user)
}

func (s *AuthService) issue(user *models.User) (*dto.LoginResponse, error) {
	token, err := GenerateToken(s.cfg, user.ID, s.now())
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: user}, nil
}

// GenerateToken signs an HS256 token whose subject is the user id.
func GenerateToken(cfg *config.Config, userID uuid.UUID, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return &user, err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return validation.Fail("current_password", "current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(user).Update("password", string(hash)).Error
}

// ForgotPassword stores a hashed one-hour reset token and mails the raw one.
// Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)
	hash := hashToken(token)
	expires := s.now().Add(resetTokenTTL)

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_password_token":  hash,
		"reset_password_expire": expires,
	}).Error; err != nil {
		return err
	}

	link := strings.TrimRight(s.cfg.AppURL, "/") + "/reset-password/" + token
	msg, err := s.templates.PasswordReset(&user, link)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("password reset email failed", "action", "forgot_password", "user_id", user.ID.String(), "error", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, req *dto.ResetPasswordRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", hashToken(token), s.now()).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validation.Fail("token", ErrInvalidResetToken.Error())
	}
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password":              string(hash),
		"reset_password_token":  nil,
		"reset_password_expire": nil,
	}).Error; err != nil {
		return nil, err
	}
	return s.issue(&user)
}

func (s *AuthService) UploadProfilePhoto(ctx context.Context, userID uuid.UUID, up *Upload) (*models.User, error) {
	if !strings.HasPrefix(up.ContentType, "image/") {
		return nil, validation.Fail("photo", "only image files are allowed")
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	meta, err := storeUpload(ctx, s.blobs, up, s.now())
	if err != nil {
		return nil, err
	}
	previous := user.ProfilePhoto
	user.ProfilePhoto = meta
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		discardBlob(ctx, s.blobs, meta)
		return nil, err
	}
	discardBlob(ctx, s.blobs, previous)
	return user, nil
}

func (s *AuthService) ProfilePhoto(ctx context.Context, userID uuid.UUID) (*File, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return loadFile(ctx, s.blobs, user.ProfilePhoto)
}

func (s *AuthService) DeleteProfilePhoto(ctx context.Context, userID uuid.UUID) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.ProfilePhoto.Present() {
		return ErrFileNotFound
	}
	previous := user.ProfilePhoto
	user.ProfilePhoto = models.FileMeta{}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	discardBlob(ctx, s.blobs, previous)
	return nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
