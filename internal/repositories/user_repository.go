package repositories

import (
	"errors"

	"katalog/internal/models"
)

// ErrUserNotFound is returned (wrapped) when a user lookup matches nothing.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
