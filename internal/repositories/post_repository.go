package repositories

import (
	"context"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a blog listing.
type PostFilter struct {
	PublishedOnly bool
	Tag           string
	Pagination
}

// PostRepository defines the interface for blog post data access.
type PostRepository interface {
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{db: db}
}

func (r *GORMPostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Tag != "" {
		query = query.Where("tags LIKE ?", `%"`+filter.Tag+`"%`)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("failed to count posts", err)
	}

	page := filter.Pagination.Normalize()
	var posts []models.Post
	if err := query.Order("published_at desc").Order("created_at desc").
		Limit(page.Limit).Offset(page.Offset()).Find(&posts).Error; err != nil {
		return nil, 0, wrapError("failed to list posts", err)
	}
	return posts, total, nil
}

func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, wrapError("failed to get post %s", err, id)
	}
	return &post, nil
}

func (r *GORMPostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		return nil, wrapError("failed to get post by slug %s", err, slug)
	}
	return &post, nil
}

func (r *GORMPostRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.db, &models.Post{}, slug, excludeID)
}

func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return wrapError("failed to create post %s", err, post.Slug)
	}
	return nil
}

func (r *GORMPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return wrapError("failed to update post %s", err, post.ID)
	}
	return nil
}

func (r *GORMPostRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return wrapError("failed to delete post %s", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return wrapError("post %s not found for deletion", gorm.ErrRecordNotFound, id)
	}
	return nil
}

func (r *GORMPostRepository) IncrementViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return wrapError("failed to count view of post %s", err, id)
	}
	return nil
}
