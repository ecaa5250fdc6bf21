package repositories

import (
	"context"
	"strings"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapError("failed to create user %s", err, user.Email)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapError("failed to get user by email %s", err, email)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapError("failed to get user by ID %s", err, id)
	}
	return &user, nil
}

// List returns every back-office account ordered by email.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("email asc").Find(&users).Error; err != nil {
		return nil, wrapError("failed to list users", err)
	}
	return users, nil
}

// Update saves every field of user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return wrapError("failed to update user %s", res.Error, user.ID)
	}
	return nil
}

// SaveLoginState writes the lockout fields with a compare-and-swap on the
// failed attempt counter.
func (r *GORMUserRepository) SaveLoginState(ctx context.Context, user *models.User, expectedAttempts int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND failed_login_attempts = ?", user.ID, expectedAttempts).
		Updates(map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts,
			"lock_until":            user.LockUntil,
			"status":                user.Status,
			"last_login_at":         user.LastLoginAt,
		})
	if res.Error != nil {
		return false, wrapError("failed to save login state for user %s", res.Error, user.ID)
	}
	return res.RowsAffected == 1, nil
}
