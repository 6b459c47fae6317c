package database

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(gorm.ErrRecordNotFound) {
		t.Error("gorm.ErrRecordNotFound should match")
	}
	if IsNotFoundError(errors.New("other")) {
		t.Error("unrelated errors should not match")
	}
	if IsNotFoundError(nil) {
		t.Error("nil should not match")
	}
}

func TestIsDuplicateError(t *testing.T) {
	if !IsDuplicateError(gorm.ErrDuplicatedKey) {
		t.Error("gorm.ErrDuplicatedKey should match")
	}
	if !IsDuplicateError(errors.New("UNIQUE constraint failed: users.username")) {
		t.Error("sqlite unique constraint message should match")
	}
	if IsDuplicateError(errors.New("syntax error")) {
		t.Error("unrelated errors should not match")
	}
}

func TestDuplicateField(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sqlite username", errors.New("UNIQUE constraint failed: users.username"), "username"},
		{"sqlite email", errors.New("UNIQUE constraint failed: users.email"), "email"},
		{"postgres style", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), "email"},
		{"no match", errors.New("UNIQUE constraint failed: users.phone"), ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DuplicateField(tc.err, "username", "email"); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
