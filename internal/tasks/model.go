package tasks

import "time"

const (
	// DefaultStatus is assigned when a task is created without one.
	DefaultStatus = "todo"
	// DefaultPriority is assigned when a task is created without one.
	DefaultPriority = 3
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	OwnerID     int64      `json:"-" db:"owner_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
