package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeReminderScan is the periodic job that finds overdue tasks.
	TaskTypeReminderScan = "task:reminder_scan"
	// TaskTypeReminder is the per-owner reminder fan-out job.
	TaskTypeReminder = "task:reminder"
)

// ReminderScanPayload configures a single scan run.
type ReminderScanPayload struct {
	// Limit caps how many overdue tasks one run picks up.
	Limit int `json:"limit"`
}

// ReminderPayload describes one owner's overdue tasks.
type ReminderPayload struct {
	Email      string   `json:"email"`
	TaskTitles []string `json:"task_titles"`
}

// NewReminderScanTask constructs the periodic scan task.
func NewReminderScanTask(payload ReminderScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReminderScan, data), nil
}

// NewReminderTask constructs a per-owner reminder task.
func NewReminderTask(payload ReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReminder, data), nil
}

// ReminderHandler processes TaskTypeReminder tasks. Delivery is a structured
// log line; wiring an SMTP sender is tracked as a follow-up.
type ReminderHandler struct {
	Logger *slog.Logger
}

// Handle logs the reminder for the owner.
func (h ReminderHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("task reminder",
		slog.String("email", payload.Email),
		slog.Int("overdue", len(payload.TaskTitles)),
		slog.Any("titles", payload.TaskTitles),
		slog.Time("at", time.Now().UTC()),
	)
	return nil
}
