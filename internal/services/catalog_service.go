package services

import (
	"context"
	"strings"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
)

// TaxonomyInput is the admin payload for a category or a brand. Image is the
// category picture or the brand logo.
type TaxonomyInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"max=120"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
}

// CatalogService manages categories and brands.
type CatalogService struct {
	categoryRepo repositories.CategoryRepository
	brandRepo    repositories.BrandRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categoryRepo repositories.CategoryRepository, brandRepo repositories.BrandRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CatalogService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		return nil, translate(err, "category")
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in TaxonomyInput) (*models.Category, error) {
	categorySlug, err := resolveSlug(in.Slug, in.Name, func(c string) (bool, error) {
		return s.categoryRepo.SlugExists(ctx, c, "")
	})
	if err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        categorySlug,
		Description: in.Description,
		Image:       in.Image,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, translate(err, "category slug")
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in TaxonomyInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	name := strings.TrimSpace(in.Name)
	if in.Slug != "" || name != category.Name {
		categorySlug, err := resolveSlug(in.Slug, name, func(c string) (bool, error) {
			return s.categoryRepo.SlugExists(ctx, c, id)
		})
		if err != nil {
			return nil, err
		}
		category.Slug = categorySlug
	}
	category.Name = name
	category.Description = in.Description
	category.Image = in.Image
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, translate(err, "category slug")
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return translate(s.categoryRepo.Delete(ctx, id), "category")
}

func (s *CatalogService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.brandRepo.List(ctx)
}

func (s *CatalogService) GetBrandBySlug(ctx context.Context, brandSlug string) (*models.Brand, error) {
	brand, err := s.brandRepo.GetBySlug(ctx, brandSlug)
	if err != nil {
		return nil, translate(err, "brand")
	}
	return brand, nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, in TaxonomyInput) (*models.Brand, error) {
	brandSlug, err := resolveSlug(in.Slug, in.Name, func(c string) (bool, error) {
		return s.brandRepo.SlugExists(ctx, c, "")
	})
	if err != nil {
		return nil, err
	}
	brand := &models.Brand{
		Name:        strings.TrimSpace(in.Name),
		Slug:        brandSlug,
		Description: in.Description,
		Logo:        in.Image,
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, translate(err, "brand slug")
	}
	return brand, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id string, in TaxonomyInput) (*models.Brand, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "brand")
	}
	name := strings.TrimSpace(in.Name)
	if in.Slug != "" || name != brand.Name {
		brandSlug, err := resolveSlug(in.Slug, name, func(c string) (bool, error) {
			return s.brandRepo.SlugExists(ctx, c, id)
		})
		if err != nil {
			return nil, err
		}
		brand.Slug = brandSlug
	}
	brand.Name = name
	brand.Description = in.Description
	brand.Logo = in.Image
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, translate(err, "brand slug")
	}
	return brand, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id string) error {
	return translate(s.brandRepo.Delete(ctx, id), "brand")
}
