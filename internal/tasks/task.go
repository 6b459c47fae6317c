// Package tasks implements per-user task management: create, list with
// filters, status updates, and deletion, all scoped to the owning user.
package tasks

import (
	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/database"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	database.BaseModel
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Status      Status    `gorm:"not null" json:"status"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
}

// TableName sets the tasks table name.
func (Task) TableName() string { return "tasks" }
