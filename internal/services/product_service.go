package services

import (
	"context"
	"errors"
	"strings"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
	"laptopshop/pkg/slug"
)

// ProductInput is the admin payload for creating or replacing a product.
type ProductInput struct {
	Name           string            `json:"name" validate:"required,max=200"`
	Model          string            `json:"model" validate:"max=100"`
	Slug           *string           `json:"slug" validate:"omitempty,max=220"`
	CategoryID     *string           `json:"category_id"`
	BrandID        *string           `json:"brand_id"`
	Price          int64             `json:"price" validate:"gte=0"`
	SalePrice      int64             `json:"sale_price" validate:"gte=0"`
	Stock          int               `json:"stock" validate:"gte=0"`
	Specs          map[string]string `json:"specs"`
	Images         []string          `json:"images" validate:"dive,url"`
	Description    string            `json:"description"`
	WarrantyMonths int               `json:"warranty_months" validate:"gte=0,lte=120"`
	IsActive       *bool             `json:"is_active"`
	IsFeatured     bool              `json:"is_featured"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	brandRepo    repositories.BrandRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository, brandRepo repositories.BrandRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

// ListProducts retrieves one page of products and the total match count.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(ctx, filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	return product, nil
}

// GetProductBySlug retrieves a product for the storefront. Inactive products
// are reported as missing.
func (s *ProductService) GetProductBySlug(ctx context.Context, productSlug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, translate(err, "product")
	}
	if !product.IsActive {
		return nil, translate(repositories.ErrNotFound, "product")
	}
	return product, nil
}

// CreateProduct creates a new product. The slug comes from the payload when
// given, otherwise it is derived from the name and made unique.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}

	explicit := slugValue(in.Slug)
	productSlug, err := s.resolveSlug(ctx, explicit, in.Name, "")
	if err != nil {
		return nil, err
	}
	product.Slug = productSlug
	product.SlugAuto = explicit == ""

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, translate(err, "product slug")
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of a product. An omitted slug is
// kept, unless the name changed and the slug was generated from the old name.
// A blank slug is regenerated from the name. Any other slug replaces the
// current one and stops it from following the name.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	nameChanged := strings.TrimSpace(in.Name) != product.Name

	if err := s.apply(ctx, product, in); err != nil {
		return nil, err
	}

	explicit := slugValue(in.Slug)
	switch {
	case in.Slug == nil && !(nameChanged && product.SlugAuto):
	case explicit != "" && slug.Make(explicit) == product.Slug:
		product.SlugAuto = false
	default:
		productSlug, err := s.resolveSlug(ctx, explicit, in.Name, product.ID)
		if err != nil {
			return nil, err
		}
		product.Slug = productSlug
		product.SlugAuto = explicit == ""
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, translate(err, "product slug")
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return translate(s.productRepo.Delete(ctx, id), "product")
}

func (s *ProductService) apply(ctx context.Context, product *models.Product, in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name is required")
	}
	if in.Price < 0 || in.SalePrice < 0 || in.Stock < 0 {
		return validationError("price and stock must not be negative")
	}
	if in.SalePrice > 0 && in.SalePrice >= in.Price {
		return validationError("sale price must be lower than price")
	}

	categoryID := emptyToNil(in.CategoryID)
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			return referenceError(err, "category")
		}
	}
	brandID := emptyToNil(in.BrandID)
	if brandID != nil {
		if _, err := s.brandRepo.GetByID(ctx, *brandID); err != nil {
			return referenceError(err, "brand")
		}
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Model = strings.TrimSpace(in.Model)
	product.CategoryID = categoryID
	product.Category = nil
	product.BrandID = brandID
	product.Brand = nil
	product.Price = in.Price
	product.SalePrice = in.SalePrice
	product.Stock = in.Stock
	product.Specs = in.Specs
	product.Images = in.Images
	product.Description = in.Description
	product.WarrantyMonths = in.WarrantyMonths
	if product.WarrantyMonths == 0 {
		product.WarrantyMonths = models.DefaultWarrantyMonths
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.IsFeatured = in.IsFeatured
	return nil
}

func (s *ProductService) resolveSlug(ctx context.Context, explicit, name, excludeID string) (string, error) {
	exists := func(candidate string) (bool, error) {
		return s.productRepo.SlugExists(ctx, candidate, excludeID)
	}
	return resolveSlug(explicit, name, exists)
}

// resolveSlug returns the slugified explicit value, failing with ErrConflict
// when taken, or a unique slug derived from name.
func resolveSlug(explicit, name string, exists func(string) (bool, error)) (string, error) {
	if explicit != "" {
		s := slug.Make(explicit)
		if s == "" {
			return "", validationError("slug must contain letters or digits")
		}
		taken, err := exists(s)
		if err != nil {
			return "", err
		}
		if taken {
			return "", translate(repositories.ErrDuplicate, "slug "+s)
		}
		return s, nil
	}

	base := slug.Make(name)
	if base == "" {
		return "", validationError("name must contain letters or digits")
	}
	return slug.Unique(base, exists)
}

func referenceError(err error, what string) error {
	if err != nil && errors.Is(err, repositories.ErrNotFound) {
		return validationError("%s does not exist", what)
	}
	return err
}

func slugValue(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
