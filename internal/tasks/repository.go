package tasks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskvault/taskvault/internal/database"
	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/logger"
)

// Repository persists tasks. Every query is scoped to the owning user so a
// task can never leak across tenants.
type Repository struct {
	db  *database.DB
	log *logger.Logger
}

// NewRepository creates the task repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.WithComponent("task-repository"),
	}
}

// List returns the user's tasks matching the filter.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	tasks := make([]Task, 0)
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return tasks, nil
}

// Get returns the user's task by ID. A task owned by another user is
// indistinguishable from a missing one.
func (r *Repository) Get(ctx context.Context, userID, id uuid.UUID) (*Task, error) {
	var task Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperrors.NotFound("task", id.String())
		}
		return nil, apperrors.DatabaseError(err)
	}
	return &task, nil
}

// Create persists a new task.
func (r *Repository) Create(ctx context.Context, task *Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Error("Could not save task", map[string]interface{}{"error": err.Error()})
		return apperrors.DatabaseError(err)
	}
	return nil
}

// UpdateStatus moves the user's task to the given status. The read and
// write run in one transaction so a concurrent delete cannot resurrect the
// row.
func (r *Repository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("status must be one of: OPEN IN_PROGRESS DONE")
	}

	var task Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("id = ? AND user_id = ?", id, userID).
			First(&task).Error; err != nil {
			return err
		}
		task.Status = status
		return tx.WithContext(ctx).Save(&task).Error
	})
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperrors.NotFound("task", id.String())
		}
		return nil, apperrors.DatabaseError(err)
	}
	return &task, nil
}

// Delete removes the user's task by ID.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Task{})
	if res.Error != nil {
		return apperrors.DatabaseError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("task", id.String())
	}
	return nil
}
