package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/aleynaerrsln/meeting-management-system/internal/config"
	"github.com/aleynaerrsln/meeting-management-system/internal/database"
	"github.com/aleynaerrsln/meeting-management-system/internal/handlers"
	"github.com/aleynaerrsln/meeting-management-system/internal/jobs"
	"github.com/aleynaerrsln/meeting-management-system/internal/logging"
	"github.com/aleynaerrsln/meeting-management-system/internal/mail"
	"github.com/aleynaerrsln/meeting-management-system/internal/middleware"
	"github.com/aleynaerrsln/meeting-management-system/internal/routes"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(logging.StdoutHandler(), pgLogHandler)))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Log cleanup (30-day retention)
	logging.StartCleanup(ctx, db)

	blobs, closeBlobs, err := openBlobStore(ctx, cfg, db)
	if err != nil {
		slog.Error("blob store init failed", "backend", cfg.BlobStore, "error", err)
		os.Exit(1)
	}

	var mailer mail.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom)
	} else {
		slog.Warn("SENDGRID_API_KEY not set, emails are only logged")
		mailer = mail.NewLogMailer()
	}
	templates := mail.Templates{AppName: cfg.AppName}
	loc := cfg.Location()
	v := validation.New()

	// Services
	notificationService := services.NewNotificationService(db)
	authService := services.NewAuthService(db, cfg, v, blobs, mailer, templates)
	userService := services.NewUserService(db, v)
	meetingService := services.NewMeetingService(db, v, mailer, templates)
	reportService := services.NewWorkReportService(db, v, blobs, notificationService)
	messageService := services.NewMessageService(db, v, blobs, notificationService)
	sponsorshipService := services.NewSponsorshipService(db, v, blobs)
	pointService := services.NewActivityPointService(db, v)
	exportService := services.NewExportService(db, loc)

	if cfg.RemindersEnabled {
		jobs.NewReminders(meetingService, loc, cfg.ReminderDailyHour).Start(ctx)
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app; the body limit covers three 10 MB sponsorship documents
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    32 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, userService, routes.Handlers{
		Health:        handlers.NewHealthHandler(db),
		Auth:          handlers.NewAuthHandler(authService),
		User:          handlers.NewUserHandler(userService),
		Meeting:       handlers.NewMeetingHandler(meetingService, reportService),
		WorkReport:    handlers.NewWorkReportHandler(reportService),
		Message:       handlers.NewMessageHandler(messageService),
		Notification:  handlers.NewNotificationHandler(notificationService),
		Sponsorship:   handlers.NewSponsorshipHandler(sponsorshipService),
		ActivityPoint: handlers.NewActivityPointHandler(pointService),
		Export:        handlers.NewExportHandler(exportService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	stop()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := closeBlobs(closeCtx); err != nil {
		slog.Error("blob store close error", "error", err)
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// openBlobStore selects the file backend. The returned close func releases
// any extra connection it opened.
func openBlobStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (storage.BlobStore, func(context.Context) error, error) {
	switch cfg.BlobStore {
	case "gridfs":
		store, err := storage.NewGridFSStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		slog.Info("using postgres blob store")
		return storage.NewPostgresStore(db), func(context.Context) error { return nil }, nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
