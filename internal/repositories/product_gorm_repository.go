package repositories

import (
	"context"
	"strings"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

var productSorts = map[string]string{
	"newest":     "products.created_at desc",
	"price_asc":  "products.price asc",
	"price_desc": "products.price desc",
	"name":       "products.name asc",
	"rating":     "products.rating_average desc",
}

// List retrieves one page of products matching filter and the total match count.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.BrandSlug != "" {
		query = query.Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.slug = ?", filter.BrandSlug)
	}
	if filter.MinPrice > 0 {
		query = query.Where("products.price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("products.price <= ?", filter.MaxPrice)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.model) LIKE ? OR LOWER(products.description) LIKE ?", like, like, like)
	}
	for _, kw := range filter.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.model) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.specs) LIKE ?", like, like, like, like)
	}
	if filter.Featured {
		query = query.Where("products.is_featured = ?", true)
	}
	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("failed to count products", err)
	}

	order, ok := productSorts[filter.Sort]
	if !ok {
		order = productSorts["newest"]
	}
	page := filter.Pagination.Normalize()

	var products []models.Product
	if err := query.Preload("Category").Preload("Brand").
		Order(order).Limit(page.Limit).Offset(page.Offset()).
		Find(&products).Error; err != nil {
		return nil, 0, wrapError("failed to list products", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Brand").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, wrapError("failed to get product by ID %s", err, id)
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its slug.
func (r *GORMProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Brand").
		First(&product, "slug = ?", slug).Error; err != nil {
		return nil, wrapError("failed to get product by slug %s", err, slug)
	}
	return &product, nil
}

// GetByIDs retrieves the products with the given IDs. Unknown IDs are skipped.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, wrapError("failed to get products by IDs", err)
	}
	return products, nil
}

// SlugExists reports whether another product already uses slug.
func (r *GORMProductRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	return slugExists(ctx, r.db, &models.Product{}, slug, excludeID)
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return wrapError("failed to create product", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Omit("Category", "Brand").Save(product) // Save also writes zero values
	if res.Error != nil {
		return wrapError("failed to update product", res.Error)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return wrapError("failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapError("product with ID %s not found for deletion", gorm.ErrRecordNotFound, id)
	}
	return nil
}

// AdjustStock changes the stock atomically, refusing to go below zero.
func (r *GORMProductRepository) AdjustStock(ctx context.Context, id string, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return false, wrapError("failed to adjust stock of product %s", res.Error, id)
	}
	return res.RowsAffected == 1, nil
}

// UpdateRating stores the aggregated review rating of a product.
func (r *GORMProductRepository) UpdateRating(ctx context.Context, id string, average float64, count int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"rating_average": average, "rating_count": count})
	if res.Error != nil {
		return wrapError("failed to update rating of product %s", res.Error, id)
	}
	return nil
}

// slugExists checks the slug column of model's table, ignoring excludeID.
func slugExists(ctx context.Context, db *gorm.DB, model interface{}, slug, excludeID string) (bool, error) {
	query := db.WithContext(ctx).Model(model).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, wrapError("failed to check slug %s", err, slug)
	}
	return count > 0, nil
}
