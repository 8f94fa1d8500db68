package tasks

import "time"

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    int        `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is an explicit patch: nil fields are left untouched, set
// fields are merged into the stored record one by one.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *int       `json:"priority,omitempty" validate:"omitempty,gte=1,lte=5"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type ListTasksRequest struct {
	Status      *string `json:"status,omitempty"`
	Search      *string `json:"search,omitempty"`
	MinPriority int     `json:"min_priority" validate:"gte=1,lte=5"`
	MaxPriority int     `json:"max_priority" validate:"gte=1,lte=5"`
	Limit       int     `json:"limit" validate:"gte=1,lte=200"`
	Offset      int     `json:"offset" validate:"gte=0"`
}

type ListTasksResponse struct {
	Items []Task `json:"items"`
	Total int    `json:"total"`
}
