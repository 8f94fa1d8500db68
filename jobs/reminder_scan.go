package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// OverdueTask is one overdue item joined with its owner's email.
type OverdueTask struct {
	OwnerEmail string
	Title      string
	DueDate    time.Time
}

// TaskSource lists overdue tasks for the scan job.
type TaskSource interface {
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]OverdueTask, error)
}

// ReminderEnqueuer submits per-owner reminder tasks.
type ReminderEnqueuer interface {
	EnqueueReminder(ctx context.Context, payload ReminderPayload) error
}

// ReminderScanJob walks tasks whose due date has passed and fans out one
// reminder per owner.
type ReminderScanJob struct {
	Source   TaskSource
	Enqueuer ReminderEnqueuer
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewReminderScanJob initialises the reminder scan handler.
func NewReminderScanJob(source TaskSource, enqueuer ReminderEnqueuer, logger *slog.Logger) *ReminderScanJob {
	return &ReminderScanJob{
		Source:   source,
		Enqueuer: enqueuer,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan logic.
func (j *ReminderScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Source == nil || j.Enqueuer == nil {
		return errors.New("reminder scan: handler not configured")
	}
	var payload ReminderScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Limit <= 0 {
		payload.Limit = 500
	}

	now := j.clock()
	logger := j.logger().With(slog.Int("limit", payload.Limit))
	logger.Info("starting reminder scan")

	overdue, err := j.Source.ListOverdue(ctx, now, payload.Limit)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	byOwner := make(map[string][]string)
	for _, task := range overdue {
		byOwner[task.OwnerEmail] = append(byOwner[task.OwnerEmail], task.Title)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for email, titles := range byOwner {
		g.Go(func() error {
			return j.Enqueuer.EnqueueReminder(ctx, ReminderPayload{Email: email, TaskTitles: titles})
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("enqueue reminders", slog.Any("error", err))
		return err
	}

	logger.Info("completed reminder scan",
		slog.Int("overdue", len(overdue)),
		slog.Int("owners", len(byOwner)),
	)
	return nil
}

func (j *ReminderScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

// PGTaskSource implements TaskSource against PostgreSQL.
type PGTaskSource struct {
	pool *pgxpool.Pool
}

// NewPGTaskSource constructs a PostgreSQL task source.
func NewPGTaskSource(pool *pgxpool.Pool) *PGTaskSource {
	return &PGTaskSource{pool: pool}
}

// ListOverdue returns tasks past their due date that are not done.
func (s *PGTaskSource) ListOverdue(ctx context.Context, now time.Time, limit int) ([]OverdueTask, error) {
	const query = `
		SELECT u.email, t.title, t.due_date
		FROM tasks t
		JOIN users u ON u.id = t.owner_id
		WHERE t.due_date IS NOT NULL
		  AND t.due_date < $1
		  AND t.status <> 'done'
		ORDER BY t.due_date
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []OverdueTask
	for rows.Next() {
		var task OverdueTask
		if err := rows.Scan(&task.OwnerEmail, &task.Title, &task.DueDate); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}

var _ TaskSource = (*PGTaskSource)(nil)
