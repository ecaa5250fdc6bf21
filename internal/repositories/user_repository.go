package repositories

import (
	"context"

	"laptopshop/internal/models"
)

// UserRepository defines the interface for back-office account data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	// SaveLoginState persists the lockout fields of user only if the stored
	// attempt counter still equals expectedAttempts. It reports whether the
	// row was written.
	SaveLoginState(ctx context.Context, user *models.User, expectedAttempts int) (bool, error)
}
