package routes

import (
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/config"
	"github.com/aleynaerrsln/meeting-management-system/internal/handlers"
	"github.com/aleynaerrsln/meeting-management-system/internal/middleware"
	"github.com/aleynaerrsln/meeting-management-system/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups every resource handler mounted under /api.
type Handlers struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Meeting       *handlers.MeetingHandler
	WorkReport    *handlers.WorkReportHandler
	Message       *handlers.MessageHandler
	Notification  *handlers.NotificationHandler
	Sponsorship   *handlers.SponsorshipHandler
	ActivityPoint *handlers.ActivityPointHandler
	Export        *handlers.ExportHandler
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}

func Setup(app *fiber.App, cfg *config.Config, users middleware.UserResolver, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(rateLimit(60))

	api.Get("/health", h.Health.Check)

	// Auth: credential endpoints get a stricter 10 req/min
	authLimit := rateLimit(10)
	api.Post("/auth/login", authLimit, h.Auth.Login)
	api.Post("/auth/forgot-password", authLimit, h.Auth.ForgotPassword)
	api.Put("/auth/reset-password/:token", authLimit, h.Auth.ResetPassword)
	api.Get("/auth/profile-photo/:userId", h.Auth.ProfilePhoto)

	protected := api.Group("", middleware.JWTProtected(cfg), middleware.Authenticate(users))
	adminOnly := middleware.AdminOnly()

	auth := protected.Group("/auth")
	auth.Get("/profile", h.Auth.Profile)
	auth.Put("/change-password", h.Auth.ChangePassword)
	auth.Post("/upload-profile-photo", h.Auth.UploadProfilePhoto)
	auth.Delete("/profile-photo", h.Auth.DeleteProfilePhoto)

	usersGroup := protected.Group("/users", adminOnly)
	usersGroup.Get("/", h.User.List)
	usersGroup.Post("/", h.User.Create)
	usersGroup.Get("/:id", h.User.Get)
	usersGroup.Put("/:id", h.User.Update)
	usersGroup.Delete("/:id", h.User.Delete)

	meetings := protected.Group("/meetings")
	meetings.Get("/", h.Meeting.List)
	meetings.Post("/", adminOnly, h.Meeting.Create)
	meetings.Get("/:id", h.Meeting.Get)
	meetings.Put("/:id", adminOnly, h.Meeting.Update)
	meetings.Delete("/:id", adminOnly, h.Meeting.Delete)
	meetings.Put("/:id/attendance", adminOnly, h.Meeting.MarkAttendance)
	meetings.Post("/:id/notes", adminOnly, h.Meeting.AddNote)
	meetings.Delete("/:id/notes/:noteId", adminOnly, h.Meeting.DeleteNote)
	meetings.Get("/:id/report", h.Meeting.Report)
	meetings.Post("/:id/create-report", adminOnly, h.Meeting.CreateReport)

	// Static paths first so they are not captured by /:id
	reports := protected.Group("/work-reports")
	reports.Get("/summary/weekly", h.WorkReport.Weekly)
	reports.Get("/summary/monthly", h.WorkReport.Monthly)
	reports.Get("/summary/all-users", adminOnly, h.WorkReport.AllUsers)
	reports.Get("/", h.WorkReport.List)
	reports.Post("/", h.WorkReport.Create)
	reports.Get("/:id", h.WorkReport.Get)
	reports.Put("/:id", h.WorkReport.Update)
	reports.Delete("/:id", h.WorkReport.Delete)
	reports.Post("/:id/submit", h.WorkReport.Submit)
	reports.Post("/:id/attachments", h.WorkReport.AddAttachments)
	reports.Get("/:id/attachment/:attachmentId", h.WorkReport.Attachment)
	reports.Delete("/:id/attachment/:attachmentId", h.WorkReport.DeleteAttachment)

	messages := protected.Group("/messages")
	messages.Get("/inbox", h.Message.Inbox)
	messages.Get("/sent", h.Message.Sent)
	messages.Get("/unread-count", h.Message.UnreadCount)
	messages.Get("/unread-by-user", h.Message.UnreadBySender)
	messages.Get("/users", h.Message.AvailableUsers)
	messages.Get("/conversation/:userId", h.Message.Conversation)
	messages.Get("/:messageId/attachment/:attachmentId", h.Message.Attachment)
	messages.Post("/", h.Message.Send)
	messages.Put("/:id/read", h.Message.MarkRead)
	messages.Delete("/:id", h.Message.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Put("/read-all", h.Notification.MarkAllRead)
	notifications.Put("/:id/read", h.Notification.MarkRead)
	notifications.Delete("/:id", h.Notification.Delete)

	sponsorships := protected.Group("/sponsorships")
	sponsorships.Get("/", h.Sponsorship.List)
	sponsorships.Post("/", h.Sponsorship.Create)
	sponsorships.Get("/:id/pdf", h.Sponsorship.Document(services.DocPdfReport))
	sponsorships.Get("/:id/sent-email", h.Sponsorship.Document(services.DocSentEmail))
	sponsorships.Get("/:id/response-email", h.Sponsorship.Document(services.DocResponseEmail))
	sponsorships.Get("/:id", h.Sponsorship.Get)
	sponsorships.Put("/:id", h.Sponsorship.Update)
	sponsorships.Put("/:id/decision", h.Sponsorship.Decide)
	sponsorships.Delete("/:id", h.Sponsorship.Delete)

	points := protected.Group("/activity-points")
	points.Get("/leaderboard", h.ActivityPoint.Leaderboard)
	points.Post("/", adminOnly, h.ActivityPoint.Add)
	points.Get("/history/:userId", adminOnly, h.ActivityPoint.History)
	points.Put("/:id", adminOnly, h.ActivityPoint.Update)
	points.Delete("/:id", adminOnly, h.ActivityPoint.Delete)

	exports := protected.Group("/export", adminOnly)
	exports.Get("/work-reports", h.Export.WorkReports)
	exports.Get("/meetings", h.Export.Meetings)
	exports.Get("/attendance/:meetingId", h.Export.Attendance)
	exports.Get("/productivity", h.Export.Productivity)
}
