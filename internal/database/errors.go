package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks if the error is a duplicate-key violation.
func IsDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

// DuplicateField inspects a duplicate-key error and reports which of the
// candidate column names collided. The sqlite driver reports
// "UNIQUE constraint failed: table.column" and postgres includes the column
// in the constraint detail, so a substring scan covers both.
func DuplicateField(err error, fields ...string) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	for _, f := range fields {
		if strings.Contains(msg, strings.ToLower(f)) {
			return f
		}
	}
	return ""
}
