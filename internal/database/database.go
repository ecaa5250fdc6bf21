package database

import (
	"fmt"
	"log"
	"strings"

	"laptopshop/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database. Duplicate-key errors are translated
// to gorm.ErrDuplicatedKey so repositories can report conflicts uniformly.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table used by the shop.
func Migrate(db *gorm.DB) error {
	migrations := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.Post{},
		&models.Software{},
		&models.RateLimitEntry{},
	}
	for _, m := range migrations {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to auto-migrate %T: %w", m, err)
		}
	}
	return nil
}

// EnsureSuperAdmin creates the bootstrap superadmin account when no superadmin
// exists yet. It does nothing when email or password is empty.
func EnsureSuperAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var existing []models.User
	res := db.Where("role = ?", models.RoleSuperAdmin).Limit(1).Find(&existing)
	if res.Error != nil {
		return fmt.Errorf("failed to look up superadmin: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{
		Email:        email,
		Name:         "Super Admin",
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}
	log.Printf("Created bootstrap superadmin %s", email)
	return nil
}
