package auth

import (
	"context"

	"github.com/taskvault/taskvault/internal/database"
	apperrors "github.com/taskvault/taskvault/internal/errors"
	"github.com/taskvault/taskvault/internal/logger"
)

// UserRepository is the credential store. It persists user records and
// validates presented passwords against stored hashes.
type UserRepository struct {
	db     *database.DB
	hasher Hasher
	log    *logger.Logger
}

// NewUserRepository creates the credential store.
func NewUserRepository(db *database.DB, hasher Hasher, log *logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		hasher: hasher,
		log:    log.WithComponent("user-repository"),
	}
}

// SignUp generates a salt, hashes the password, and persists the user.
// A username or email collision is reported as a conflict naming the
// specific field; any other persistence fault is a database error.
func (r *UserRepository) SignUp(ctx context.Context, username, email, password string) error {
	switch "" {
	case username:
		return apperrors.MissingField("username")
	case email:
		return apperrors.MissingField("email")
	case password:
		return apperrors.MissingField("password")
	}

	salt, err := r.hasher.GenerateSalt()
	if err != nil {
		return apperrors.Internal(err)
	}
	hash, err := r.hasher.Hash(password, salt)
	if err != nil {
		return apperrors.Internal(err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsDuplicateError(err) {
			// Concurrent sign-ups racing on the same username land here too:
			// the uniqueness guarantee is the store's constraint, not
			// application logic.
			field := database.DuplicateField(err, "username", "email")
			if field == "" {
				// TranslateError collapses the driver error to a bare
				// sentinel, losing the column name.
				field = r.collidingField(ctx, username, email)
			}
			switch field {
			case "username":
				return apperrors.AlreadyExists("username", username)
			case "email":
				return apperrors.AlreadyExists("email", email)
			}
			return apperrors.Conflict("A user with these details already exists.").WithCause(err)
		}
		r.log.Error("Could not save user", map[string]interface{}{"error": err.Error()})
		return apperrors.DatabaseError(err)
	}
	return nil
}

// collidingField reports which unique column an attempted insert collided
// on, by looking the values up directly.
func (r *UserRepository) collidingField(ctx context.Context, username, email string) string {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err == nil && count > 0 {
		return "username"
	}
	if err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err == nil && count > 0 {
		return "email"
	}
	return ""
}

// ValidateCredentials looks up a user whose username or email matches the
// identifier and checks the password against the stored hash. It returns
// the canonical username on a match and "" otherwise — "user not found"
// and "wrong password" are deliberately indistinguishable.
func (r *UserRepository) ValidateCredentials(ctx context.Context, identifier, password string) (string, error) {
	var user User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return "", nil
		}
		return "", apperrors.DatabaseError(err)
	}

	if !r.hasher.Verify(password, user.Salt, user.PasswordHash) {
		return "", nil
	}
	return user.Username, nil
}

// FindByUsername resolves a verified token payload to its user record.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return nil, apperrors.NotFound("user", "")
		}
		return nil, apperrors.DatabaseError(err)
	}
	return &user, nil
}
