package models

import "time"

// RateLimitEntry is one key of the shared rate limiter storage.
type RateLimitEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;type:varchar(255)"`
	Value     []byte
	ExpiresAt *time.Time `gorm:"index"`
}
