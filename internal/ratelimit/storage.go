package ratelimit

import (
	"context"
	"log"
	"time"

	"laptopshop/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ fiber.Storage = (*Storage)(nil)

// Storage keeps rate limiter counters in the database so that every
// instance of the API shares the same window.
type Storage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStorage creates a new Storage on db. The rate_limit_entries table must
// already be migrated.
func NewStorage(db *gorm.DB) *Storage {
	return &Storage{db: db, now: time.Now}
}

// Get returns the value stored for key, or nil when it is missing or expired.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var entry models.RateLimitEntry
	res := s.db.Where("entry_key = ?", key).Limit(1).Find(&entry)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	if entry.ExpiresAt != nil && !entry.ExpiresAt.After(s.now()) {
		return nil, nil
	}
	return entry.Value, nil
}

// Set stores val under key. A zero exp keeps the entry forever.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	entry := models.RateLimitEntry{Key: key, Value: val}
	if exp > 0 {
		expiresAt := s.now().Add(exp)
		entry.ExpiresAt = &expiresAt
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		UpdateAll: true,
	}).Create(&entry).Error
}

func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Where("entry_key = ?", key).Delete(&models.RateLimitEntry{}).Error
}

// Reset removes every entry.
func (s *Storage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.RateLimitEntry{}).Error
}

// Close is a no-op; the database handle is owned by the caller.
func (s *Storage) Close() error {
	return nil
}

// DeleteExpired removes entries whose window has passed and returns how
// many were deleted.
func (s *Storage) DeleteExpired() (int64, error) {
	result := s.db.Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).Delete(&models.RateLimitEntry{})
	return result.RowsAffected, result.Error
}

// StartGC deletes expired entries every interval until ctx is cancelled.
func (s *Storage) StartGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.DeleteExpired(); err != nil {
					log.Printf("Error cleaning rate limit entries: %v", err)
				} else if n > 0 {
					log.Printf("Removed %d expired rate limit entries", n)
				}
			}
		}
	}()
}
