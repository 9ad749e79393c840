package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is an ERROR record persisted by the logging pipeline. Request
// failures fill Method and Path; attributes without a column land in Extra.
type SystemLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Level     string         `gorm:"size:10;not null" json:"level"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Action    string         `gorm:"size:100;index" json:"action,omitempty"`
	UserID    *string        `gorm:"size:36;index" json:"user_id,omitempty"`
	RequestID string         `gorm:"size:64" json:"request_id,omitempty"`
	Method    string         `gorm:"size:10" json:"method,omitempty"`
	Path      string         `gorm:"size:255" json:"path,omitempty"`
	Error     string         `gorm:"type:text" json:"error,omitempty"`
	LatencyMs int            `json:"latency_ms,omitempty"`
	Extra     datatypes.JSON `gorm:"type:jsonb" json:"extra,omitempty"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
