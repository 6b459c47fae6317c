package auth

import (
	"github.com/taskvault/taskvault/internal/database"
)

// User is the identity record. Username and email are unique across all
// users; the password is stored only as a salted one-way hash. Owned tasks
// reference the user by ID.
type User struct {
	database.BaseModel
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Salt         string `gorm:"not null" json:"-"`
}

// TableName sets the users table name.
func (User) TableName() string { return "users" }
