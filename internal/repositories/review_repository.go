package repositories

import (
	"context"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// ReviewFilter narrows a review listing.
type ReviewFilter struct {
	Status    string
	ProductID string
	// ShopOnly keeps reviews that are not attached to a product.
	ShopOnly  bool
	Pagination
}

// RatingStats aggregates approved reviews.
type RatingStats struct {
	Average float64
	Count   int
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	// RatingStats aggregates the approved reviews of a product, or of the
	// shop itself when productID is empty.
	RatingStats(ctx context.Context, productID string) (RatingStats, error)
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

func (r *GORMReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return wrapError("failed to create review", err)
	}
	return nil
}

func (r *GORMReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, wrapError("failed to get review %s", err, id)
	}
	return &review, nil
}

// List retrieves one page of reviews, newest first.
func (r *GORMReviewRepository) List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	} else if filter.ShopOnly {
		query = query.Where("product_id IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("failed to count reviews", err)
	}

	page := filter.Pagination.Normalize()
	var reviews []models.Review
	if err := query.Order("created_at desc").Limit(page.Limit).Offset(page.Offset()).
		Find(&reviews).Error; err != nil {
		return nil, 0, wrapError("failed to list reviews", err)
	}
	return reviews, total, nil
}

func (r *GORMReviewRepository) Update(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return wrapError("failed to update review %s", err, review.ID)
	}
	return nil
}

func (r *GORMReviewRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return wrapError("failed to delete review %s", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return wrapError("review %s not found for deletion", gorm.ErrRecordNotFound, id)
	}
	return nil
}

func (r *GORMReviewRepository) RatingStats(ctx context.Context, productID string) (RatingStats, error) {
	var row struct {
		Average float64
		Count   int
	}
	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("status = ?", models.ReviewApproved)
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	} else {
		query = query.Where("product_id IS NULL")
	}
	if err := query.Scan(&row).Error; err != nil {
		return RatingStats{}, wrapError("failed to aggregate ratings", err)
	}
	return RatingStats{Average: row.Average, Count: row.Count}, nil
}
