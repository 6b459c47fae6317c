package tasks

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/validation"
)

// Service handles the task business logic for a single authenticated user.
type Service struct {
	repo *Repository
	log  *logger.Logger
}

// NewService creates the task service.
func NewService(repo *Repository, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.WithComponent("task-service"),
	}
}

// List returns the user's tasks matching the filter.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, error) {
	if err := validation.Validate(filter); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, userID, filter)
}

// Get returns the user's task by ID.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Task, error) {
	return s.repo.Get(ctx, userID, id)
}

// Create persists a new task for the user. New tasks start OPEN.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateTaskRequest) (*Task, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	task := &Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusOpen,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus moves the user's task to the given status.
func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req UpdateStatusRequest) (*Task, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, userID, id, req.Status)
}

// Delete removes the user's task by ID.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.Delete(ctx, userID, id)
}
