package repositories

import (
	"context"
	"strings"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// SoftwareFilter narrows a software directory listing.
type SoftwareFilter struct {
	Category   string
	Platform   string
	Query      string
	ActiveOnly bool
	Pagination
}

// SoftwareRepository defines the interface for download directory data access.
type SoftwareRepository interface {
	List(ctx context.Context, filter SoftwareFilter) ([]models.Software, int64, error)
	GetByID(ctx context.Context, id string) (*models.Software, error)
	GetBySlug(ctx context.Context, slug string) (*models.Software, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Create(ctx context.Context, software *models.Software) error
	Update(ctx context.Context, software *models.Software) error
	Delete(ctx context.Context, id string) error
	IncrementDownloads(ctx context.Context, id string) error
}

// GORMSoftwareRepository is a GORM implementation of SoftwareRepository.
type GORMSoftwareRepository struct {
	db *gorm.DB
}

// NewGORMSoftwareRepository creates a new instance of GORMSoftwareRepository.
func NewGORMSoftwareRepository(db *gorm.DB) *GORMSoftwareRepository {
	return &GORMSoftwareRepository{db: db}
}

func (r *GORMSoftwareRepository) List(ctx context.Context, filter SoftwareFilter) ([]models.Software, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Software{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("failed to count software", err)
	}

	page := filter.Pagination.Normalize()
	var items []models.Software
	if err := query.Order("downloads desc").Order("name asc").
		Limit(page.Limit).Offset(page.Offset()).Find(&items).Error; err != nil {
		return nil, 0, wrapError("failed to list software", err)
	}
	return items, total, nil
}

func (r *GORMSoftwareRepository) GetByID(ctx context.Context, id string) (*models.Software, error) {
	var item models.Software
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, wrapError("failed to get software %s", err, id)
	}
	return &item, nil
}

func (r *GORMSoftwareRepository) GetBySlug(ctx context.Context, slug string) (*models.Software, error) {
	var item models.Software
	if err := r.db.WithContext(ctx).First(&item, "slug = ?", slug).Error; err != nil {
		return nil, wrapError("failed to get software by slug %s", err, slug)
	}
	return &item, nil
}

func (r *GORMSoftwareRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.db, &models.Software{}, slug, excludeID)
}

func (r *GORMSoftwareRepository) Create(ctx context.Context, software *models.Software) error {
	if err := r.db.WithContext(ctx).Create(software).Error; err != nil {
		return wrapError("failed to create software %s", err, software.Slug)
	}
	return nil
}

func (r *GORMSoftwareRepository) Update(ctx context.Context, software *models.Software) error {
	if err := r.db.WithContext(ctx).Save(software).Error; err != nil {
		return wrapError("failed to update software %s", err, software.ID)
	}
	return nil
}

func (r *GORMSoftwareRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Software{}, "id = ?", id)
	if res.Error != nil {
		return wrapError("failed to delete software %s", res.Error, id)
	}
	if res.RowsAffected == 0 {
		return wrapError("software %s not found for deletion", gorm.ErrRecordNotFound, id)
	}
	return nil
}

func (r *GORMSoftwareRepository) IncrementDownloads(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&models.Software{}).Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + ?", 1)).Error
	if err != nil {
		return wrapError("failed to count download of software %s", err, id)
	}
	return nil
}
