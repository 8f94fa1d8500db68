package tasks

import (
	"context"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/shared"
)

// Service enforces ownership on every task operation. A task that exists but
// belongs to another user is reported exactly like a missing one.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateTaskRequest) (*Task, error) {
	task := Task{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if task.Status == "" {
		task.Status = DefaultStatus
	}
	if task.Priority == 0 {
		task.Priority = DefaultPriority
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id int64) (*Task, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID int64, req ListTasksRequest) ([]Task, int, error) {
	if req.MinPriority == 0 {
		req.MinPriority = 1
	}
	if req.MaxPriority == 0 {
		req.MaxPriority = 5
	}
	if req.Limit == 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, ownerID, req)
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateTaskRequest) (*Task, error) {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}

	// Even an empty patch bumps updated_at.
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return s.getOwned(ctx, ownerID, id)
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *Service) getOwned(ctx context.Context, ownerID, id int64) (*Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		return nil, shared.ErrNotFound
	}
	return task, nil
}
