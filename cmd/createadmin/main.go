// Command createadmin seeds an administrator account when none exists for
// the given email.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/aleynaerrsln/meeting-management-system/internal/config"
	"github.com/aleynaerrsln/meeting-management-system/internal/database"
	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/logging"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logging.Setup()
	cfg := config.Load()

	email := flag.String("email", envOr("ADMIN_EMAIL", "admin@example.com"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (min 6 chars)")
	firstName := flag.String("first-name", envOr("ADMIN_FIRST_NAME", "Admin"), "first name")
	lastName := flag.String("last-name", envOr("ADMIN_LAST_NAME", "User"), "last name")
	flag.Parse()

	if *password == "" {
		slog.Error("admin password is required: pass -password or set ADMIN_PASSWORD")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var existing int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(*email))).
		Count(&existing).Error; err != nil {
		slog.Error("admin lookup failed", "error", err)
		os.Exit(1)
	}
	if existing > 0 {
		slog.Info("admin already exists, nothing to do", "email", *email)
		return
	}

	seeder := policy.Subject{UserID: uuid.New(), Role: policy.RoleAdmin}
	user, err := services.NewUserService(db, validation.New()).Create(ctx, seeder, &dto.CreateUserRequest{
		FirstName:   *firstName,
		LastName:    *lastName,
		Email:       *email,
		Password:    *password,
		Role:        models.RoleAdmin,
		Departments: []string{"Management"},
	})
	if err != nil {
		slog.Error("admin creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("admin created", "email", user.Email, "user_id", user.ID.String())
}
