package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the GORM repositories sharing one connection, or one
// transaction when obtained through Transaction.
type Store struct {
	db         *gorm.DB
	Users      *GORMUserRepository
	Products   *GORMProductRepository
	Categories *GORMCategoryRepository
	Brands     *GORMBrandRepository
	Orders     *GORMOrderRepository
	Customers  *GORMCustomerRepository
	Reviews    *GORMReviewRepository
	Posts      *GORMPostRepository
	Software   *GORMSoftwareRepository
}

// NewStore creates a Store on top of db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewGORMUserRepository(db),
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Brands:     NewGORMBrandRepository(db),
		Orders:     NewGORMOrderRepository(db),
		Customers:  NewGORMCustomerRepository(db),
		Reviews:    NewGORMReviewRepository(db),
		Posts:      NewGORMPostRepository(db),
		Software:   NewGORMSoftwareRepository(db),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
