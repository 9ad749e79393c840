package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	batches [][]models.SystemLog
	err     error
}

func (c *captured) write(batch []models.SystemLog) error {
	c.batches = append(c.batches, batch)
	return c.err
}

func TestPGHandlerMapsKnownAttrs(t *testing.T) {
	sink := &captured{}
	h := newPGHandler(sink.write)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Error("report update failed",
		"user_id", "u-1",
		"action", "update_report",
		"method", "PUT",
		"path", "/api/work-reports/r-9",
		"error", errors.New("boom"),
		"latency_ms", 12.6,
		"report_id", "r-9",
	)
	h.Flush()

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 1)
	entry := sink.batches[0][0]
	assert.Equal(t, "report update failed", entry.Message)
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "update_report", entry.Action)
	assert.Equal(t, "PUT", entry.Method)
	assert.Equal(t, "/api/work-reports/r-9", entry.Path)
	assert.Equal(t, "boom", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)
	assert.JSONEq(t, `{"report_id":"r-9"}`, string(entry.Extra))
}

func TestPGHandlerFlushSkipsEmptyQueue(t *testing.T) {
	sink := &captured{}
	h := newPGHandler(sink.write)
	h.Flush()
	assert.Empty(t, sink.batches)
}

func TestPGHandlerStopDrains(t *testing.T) {
	sink := &captured{}
	h := newPGHandler(sink.write)
	go h.run(pgFlushInterval)

	slog.New(h).Error("mail send failed")
	h.Stop()
	h.Stop()

	require.Len(t, sink.batches, 1)
	assert.Equal(t, "mail send failed", sink.batches[0][0].Message)
}

func TestPGHandlerIgnoresBelowError(t *testing.T) {
	h := newPGHandler(func([]models.SystemLog) error { return nil })
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

type recordingHandler struct {
	records []slog.Record
	level   slog.Level
	err     error
}

func (r *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= r.level }
func (r *recordingHandler) Handle(_ context.Context, rec slog.Record) error {
	r.records = append(r.records, rec)
	return r.err
}
func (r *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingHandler) WithGroup(string) slog.Handler      { return r }

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	all := &recordingHandler{level: slog.LevelDebug}
	errs := &recordingHandler{level: slog.LevelError}
	logger := slog.New(NewMultiHandler(all, nil, errs))

	logger.Info("meeting created")
	logger.Error("mail failed")

	assert.Len(t, all.records, 2)
	assert.Len(t, errs.records, 1)
	assert.Equal(t, "mail failed", errs.records[0].Message)
}

func TestMultiHandlerKeepsGoingAfterSinkError(t *testing.T) {
	broken := &recordingHandler{level: slog.LevelDebug, err: errors.New("db down")}
	stdout := &recordingHandler{level: slog.LevelDebug}
	h := NewMultiHandler(broken, stdout)

	rec := slog.NewRecord(time.Time{}, slog.LevelError, "flush failed", 0)
	err := h.Handle(context.Background(), rec)

	assert.EqualError(t, err, "db down")
	assert.Len(t, stdout.records, 1)
}

func TestLevelFromEnv(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, levelFromEnv("DEBUG"))
	assert.Equal(t, slog.LevelWarn, levelFromEnv("warn"))
	assert.Equal(t, slog.LevelInfo, levelFromEnv(""))
}
