package repositories

import (
	"context"

	"laptopshop/internal/models"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategorySlug string
	BrandSlug    string
	MinPrice     int64
	MaxPrice     int64
	// Query matches name, model or description.
	Query string
	// Keywords must each match name, model, description or specs.
	Keywords   []string
	Featured   bool
	ActiveOnly bool
	// Sort is one of newest, price_asc, price_desc, name, rating.
	Sort string
	Pagination
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock adds delta to the stock unless the result would be negative.
	// It reports false when the stock was insufficient.
	AdjustStock(ctx context.Context, id string, delta int) (bool, error)
	UpdateRating(ctx context.Context, id string, average float64, count int) error
}
