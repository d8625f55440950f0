package repositories

import "pedefood/internal/models"

// UserRepository defines the interface for user data access.
// Email is the login key; Create must fail with errs.ErrConflict when the
// email is already registered.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
