package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"gorm.io/gorm"
)

const logRetention = 30 * 24 * time.Hour

// StartCleanup deletes system_logs older than the retention window once a day
// until ctx is cancelled.
func StartCleanup(ctx context.Context, db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				purgeOlderThan(db, time.Now().Add(-logRetention))
			case <-ctx.Done():
				return
			}
		}
	}()
}

func purgeOlderThan(db *gorm.DB, cutoff time.Time) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "action", "log_cleanup", "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
}
