package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	pgBatchSize     = 50
	pgFlushInterval = 5 * time.Second
)

// columns maps attribute keys onto their dedicated system_logs column.
var columns = map[string]func(*models.SystemLog, slog.Value){
	"request_id": func(e *models.SystemLog, v slog.Value) { e.RequestID = v.String() },
	"action":     func(e *models.SystemLog, v slog.Value) { e.Action = v.String() },
	"error":      func(e *models.SystemLog, v slog.Value) { e.Error = v.String() },
	"method":     func(e *models.SystemLog, v slog.Value) { e.Method = v.String() },
	"path":       func(e *models.SystemLog, v slog.Value) { e.Path = v.String() },
	"user_id": func(e *models.SystemLog, v slog.Value) {
		s := v.String()
		e.UserID = &s
	},
	"latency_ms": func(e *models.SystemLog, v slog.Value) {
		switch v.Kind() {
		case slog.KindFloat64:
			e.LatencyMs = int(math.Round(v.Float64()))
		case slog.KindInt64:
			e.LatencyMs = int(v.Int64())
		case slog.KindDuration:
			e.LatencyMs = int(v.Duration().Milliseconds())
		}
	},
}

// PGHandler queues ERROR and above into system_logs. Records are written in
// batches on a timer or once the queue fills.
type PGHandler struct {
	write func([]models.SystemLog) error

	mu      sync.Mutex
	pending []models.SystemLog

	stopOnce sync.Once
	done     chan struct{}
	exited   chan struct{}
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	h := newPGHandler(func(batch []models.SystemLog) error {
		return db.CreateInBatches(batch, pgBatchSize).Error
	})
	go h.run(pgFlushInterval)
	return h
}

func newPGHandler(write func([]models.SystemLog) error) *PGHandler {
	return &PGHandler{
		write:   write,
		pending: make([]models.SystemLog, 0, pgBatchSize),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

func (h *PGHandler) run(every time.Duration) {
	defer close(h.exited)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Flush()
		case <-h.done:
			h.Flush()
			return
		}
	}
}

// Flush writes whatever is queued. Failures are logged at WARN so they never
// re-enter this handler.
func (h *PGHandler) Flush() {
	h.mu.Lock()
	batch := h.pending
	h.pending = make([]models.SystemLog, 0, pgBatchSize)
	h.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if err := h.write(batch); err != nil {
		slog.Warn("system log flush failed", "error", err, "dropped", len(batch))
	}
}

// Stop drains the queue and waits for the flush loop to exit.
func (h *PGHandler) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		<-h.exited
	})
}

func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	h.enqueue(record, nil)
	return nil
}

func (h *PGHandler) enqueue(record slog.Record, bound []slog.Attr) {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time.UTC(),
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := map[string]any{}
	place := func(a slog.Attr) bool {
		a.Value = a.Value.Resolve()
		if set, ok := columns[a.Key]; ok {
			set(&entry, a.Value)
		} else if a.Key != "" {
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range bound {
		place(a)
	}
	record.Attrs(place)

	if len(extra) > 0 {
		if raw, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(raw)
		}
	}

	h.mu.Lock()
	h.pending = append(h.pending, entry)
	full := len(h.pending) >= pgBatchSize
	h.mu.Unlock()

	if full {
		go h.Flush()
	}
}

// WithAttrs returns a view bound to attrs that feeds the same queue.
func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &pgView{root: h, bound: attrs}
}

// WithGroup is ignored; system_logs is flat.
func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}

type pgView struct {
	root  *PGHandler
	bound []slog.Attr
}

func (v *pgView) Enabled(ctx context.Context, level slog.Level) bool {
	return v.root.Enabled(ctx, level)
}

func (v *pgView) Handle(_ context.Context, record slog.Record) error {
	v.root.enqueue(record, v.bound)
	return nil
}

func (v *pgView) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := make([]slog.Attr, 0, len(v.bound)+len(attrs))
	bound = append(bound, v.bound...)
	return &pgView{root: v.root, bound: append(bound, attrs...)}
}

func (v *pgView) WithGroup(string) slog.Handler {
	return v
}
