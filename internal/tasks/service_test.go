package tasks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"

	"github.com/taskvault/taskvault/internal/database"
	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	cfg := database.Config{DSN: dsn, MaxRetries: 1, LogLevel: "silent"}
	log := logger.NewDefault("test")

	db, err := database.New(cfg, log, sqlite.Open(dsn))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.GormDB.AutoMigrate(&Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db, log)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestRepository(t), logger.NewDefault("test"))
}

func mustCreate(t *testing.T, svc *Service, userID uuid.UUID, title, description string) *Task {
	t.Helper()
	task, err := svc.Create(context.Background(), userID, CreateTaskRequest{Title: title, Description: description})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return task
}

func TestServiceCreateDefaultsToOpen(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	task := mustCreate(t, svc, userID, "Buy milk", "Two liters")
	if task.Status != StatusOpen {
		t.Errorf("new tasks should start OPEN, got %s", task.Status)
	}
	if task.ID == uuid.Nil {
		t.Error("expected a generated ID")
	}
	if task.UserID != userID {
		t.Errorf("task should belong to its creator, got %s", task.UserID)
	}
}

func TestServiceCreateRejectsMissingTitle(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskRequest{Description: "no title"})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestServiceListIsScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	mustCreate(t, svc, alice, "Alice task", "hers")
	mustCreate(t, svc, bob, "Bob task", "his")

	list, err := svc.List(ctx, alice, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Alice task" {
		t.Errorf("expected only Alice's task, got %v", list)
	}
}

func TestServiceListFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	mustCreate(t, svc, userID, "Write report", "Quarterly numbers")
	done := mustCreate(t, svc, userID, "Review budget", "Check the spreadsheet")
	if _, err := svc.UpdateStatus(ctx, userID, done.ID, UpdateStatusRequest{Status: StatusDone}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	t.Run("by status", func(t *testing.T) {
		list, err := svc.List(ctx, userID, Filter{Status: StatusDone})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Review budget" {
			t.Errorf("expected the DONE task, got %v", list)
		}
	})

	t.Run("by search on title", func(t *testing.T) {
		list, err := svc.List(ctx, userID, Filter{Search: "report"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Write report" {
			t.Errorf("expected the report task, got %v", list)
		}
	})

	t.Run("by search on description", func(t *testing.T) {
		list, err := svc.List(ctx, userID, Filter{Search: "spreadsheet"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 1 || list[0].Title != "Review budget" {
			t.Errorf("expected the budget task, got %v", list)
		}
	})

	t.Run("combined", func(t *testing.T) {
		list, err := svc.List(ctx, userID, Filter{Status: StatusOpen, Search: "budget"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("no OPEN task matches budget, got %v", list)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.List(ctx, userID, Filter{Status: "BOGUS"})
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})
}

func TestServiceGetScopedToOwner(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	task := mustCreate(t, svc, alice, "Alice task", "hers")

	got, err := svc.Get(ctx, alice, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != task.ID {
		t.Errorf("expected task %s, got %s", task.ID, got.ID)
	}

	// Another user's task reads as missing, not forbidden.
	_, err = svc.Get(ctx, bob, task.ID)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	task := mustCreate(t, svc, userID, "Write report", "numbers")

	updated, err := svc.UpdateStatus(ctx, userID, task.ID, UpdateStatusRequest{Status: StatusInProgress})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", updated.Status)
	}

	got, err := svc.Get(ctx, userID, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusInProgress {
		t.Errorf("status change should persist, got %s", got.Status)
	}

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, userID, task.ID, UpdateStatusRequest{Status: "ARCHIVED"})
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})

	t.Run("other user's task", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, uuid.New(), task.ID, UpdateStatusRequest{Status: StatusDone})
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != apperrors.ErrCodeNotFound {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})
}

func TestStatusValid(t *testing.T) {
	valid := []Status{StatusOpen, StatusInProgress, StatusDone}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []Status{"", "open", "ARCHIVED"} {
		if s.Valid() {
			t.Errorf("%q should not be valid", s)
		}
	}
}

func TestRepositoryUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newTestRepository(t)

	// The repository guards the enum itself; callers bypassing the DTO
	// validation must not be able to persist an unknown status.
	_, err := repo.UpdateStatus(context.Background(), uuid.New(), uuid.New(), "ARCHIVED")
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	task := mustCreate(t, svc, userID, "Buy milk", "Two liters")

	t.Run("other user's task", func(t *testing.T) {
		err := svc.Delete(ctx, uuid.New(), task.ID)
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != apperrors.ErrCodeNotFound {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})

	if err := svc.Delete(ctx, userID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	t.Run("deleted task is gone", func(t *testing.T) {
		_, err := svc.Get(ctx, userID, task.ID)
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != apperrors.ErrCodeNotFound {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("double delete", func(t *testing.T) {
		err := svc.Delete(ctx, userID, task.ID)
		appErr, ok := apperrors.AsAppError(err)
		if !ok || appErr.Code != apperrors.ErrCodeNotFound {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})
}
