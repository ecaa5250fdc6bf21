package services_test

import (
	"context"
	"fmt"
	"testing"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestProductService() (*services.ProductService, *MockProductRepository, *MockCategoryRepository, *MockBrandRepository) {
	products := new(MockProductRepository)
	categories := new(MockCategoryRepository)
	brands := new(MockBrandRepository)
	return services.NewProductService(products, categories, brands), products, categories, brands
}

func strPtr(s string) *string { return &s }

func TestProductService_CreateProductGeneratesUniqueSlug(t *testing.T) {
	service, products, categories, _ := newTestProductService()
	categoryID := "cat-1"

	categories.On("GetByID", "cat-1").Return(&models.Category{Name: "Gaming"}, nil).Once()
	products.On("SlugExists", "laptop-asus-tuf-gaming", "").Return(true, nil).Once()
	products.On("SlugExists", "laptop-asus-tuf-gaming-2", "").Return(false, nil).Once()
	products.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(context.Background(), services.ProductInput{
		Name:       "Laptop ASUS TUF Gaming",
		CategoryID: &categoryID,
		Price:      25_000_000,
		Stock:      4,
	})
	require.NoError(t, err)
	assert.Equal(t, "laptop-asus-tuf-gaming-2", product.Slug)
	assert.True(t, product.SlugAuto)
	assert.True(t, product.IsActive)
	assert.Equal(t, models.DefaultWarrantyMonths, product.WarrantyMonths)
	products.AssertExpectations(t)
	categories.AssertExpectations(t)
}

func TestProductService_CreateProductExplicitSlugConflict(t *testing.T) {
	service, products, _, _ := newTestProductService()

	products.On("SlugExists", "dell-xps-13", "").Return(true, nil).Once()

	_, err := service.CreateProduct(context.Background(), services.ProductInput{
		Name:  "Dell XPS 13",
		Slug:  strPtr("Dell XPS 13"),
		Price: 30_000_000,
	})
	assert.ErrorIs(t, err, services.ErrConflict)
	products.AssertNotCalled(t, "Create", mock.Anything)
}

func TestProductService_CreateProductValidation(t *testing.T) {
	service, _, categories, _ := newTestProductService()
	missing := "nope"

	_, err := service.CreateProduct(context.Background(), services.ProductInput{Name: "A", Price: 100, SalePrice: 200})
	assert.ErrorIs(t, err, services.ErrValidation)

	categories.On("GetByID", "nope").Return(nil, fmt.Errorf("lookup: %w", repositories.ErrNotFound)).Once()
	_, err = service.CreateProduct(context.Background(), services.ProductInput{Name: "A", Price: 100, CategoryID: &missing})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "category does not exist")
}

func TestProductService_CreateProductInactive(t *testing.T) {
	service, products, _, _ := newTestProductService()
	inactive := false

	products.On("SlugExists", "draft", "").Return(false, nil).Once()
	products.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.CreateProduct(context.Background(), services.ProductInput{Name: "Draft", Price: 1, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, product.IsActive)
}

func TestProductService_UpdateProductKeepsSlugWhenNameUnchanged(t *testing.T) {
	service, products, _, _ := newTestProductService()
	existing := &models.Product{Name: "ThinkPad E14", Slug: "thinkpad-e14-custom", Price: 18_000_000, IsActive: true}
	existing.ID = "p-1"

	products.On("GetByID", "p-1").Return(existing, nil).Once()
	products.On("Update", existing).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "p-1", services.ProductInput{
		Name:           "ThinkPad E14",
		Price:          17_000_000,
		WarrantyMonths: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, "thinkpad-e14-custom", updated.Slug)
	assert.Equal(t, int64(17_000_000), updated.Price)
	assert.Equal(t, 24, updated.WarrantyMonths)
	assert.True(t, updated.IsActive)
	products.AssertExpectations(t)
}

func TestProductService_UpdateProductRenameRegeneratesSlug(t *testing.T) {
	service, products, _, _ := newTestProductService()
	existing := &models.Product{Name: "Old", Slug: "old", SlugAuto: true}
	existing.ID = "p-1"

	products.On("GetByID", "p-1").Return(existing, nil).Once()
	products.On("SlugExists", "macbook-air-m3", "p-1").Return(false, nil).Once()
	products.On("Update", existing).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "p-1", services.ProductInput{Name: "MacBook Air M3", Price: 27_000_000})
	require.NoError(t, err)
	assert.Equal(t, "macbook-air-m3", updated.Slug)
	assert.True(t, updated.SlugAuto)
}

func TestProductService_UpdateProductRenameKeepsManualSlug(t *testing.T) {
	service, products, _, _ := newTestProductService()
	existing := &models.Product{Name: "Old", Slug: "campaign-slug", SlugAuto: false}
	existing.ID = "p-1"

	products.On("GetByID", "p-1").Return(existing, nil).Once()
	products.On("Update", existing).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "p-1", services.ProductInput{Name: "MacBook Air M3", Price: 27_000_000})
	require.NoError(t, err)
	assert.Equal(t, "campaign-slug", updated.Slug)
	products.AssertNotCalled(t, "SlugExists", mock.Anything, mock.Anything)
}

func TestProductService_UpdateProductBlankSlugRegenerates(t *testing.T) {
	service, products, _, _ := newTestProductService()
	existing := &models.Product{Name: "ROG Zephyrus G14", Slug: "campaign-slug", SlugAuto: false}
	existing.ID = "p-1"

	products.On("GetByID", "p-1").Return(existing, nil).Once()
	products.On("SlugExists", "rog-zephyrus-g14", "p-1").Return(false, nil).Once()
	products.On("Update", existing).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "p-1", services.ProductInput{
		Name:  "ROG Zephyrus G14",
		Slug:  strPtr(""),
		Price: 40_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, "rog-zephyrus-g14", updated.Slug)
	assert.True(t, updated.SlugAuto)
	products.AssertExpectations(t)
}

func TestProductService_UpdateProductExplicitSlug(t *testing.T) {
	service, products, _, _ := newTestProductService()
	existing := &models.Product{Name: "Swift Go 14", Slug: "swift-go-14", SlugAuto: true}
	existing.ID = "p-1"

	products.On("GetByID", "p-1").Return(existing, nil).Twice()
	products.On("SlugExists", "acer-swift-go-14-2024", "p-1").Return(false, nil).Once()
	products.On("Update", existing).Return(nil).Twice()

	updated, err := service.UpdateProduct(context.Background(), "p-1", services.ProductInput{
		Name:  "Swift Go 14",
		Slug:  strPtr("Acer Swift Go 14 2024"),
		Price: 19_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, "acer-swift-go-14-2024", updated.Slug)
	assert.False(t, updated.SlugAuto)

	updated, err = service.UpdateProduct(context.Background(), "p-1", services.ProductInput{Name: "Swift Go 14 OLED", Price: 19_000_000})
	require.NoError(t, err)
	assert.Equal(t, "acer-swift-go-14-2024", updated.Slug, "a chosen slug no longer follows the name")
	products.AssertExpectations(t)
}

func TestProductService_GetProductBySlugHidesInactive(t *testing.T) {
	service, products, _, _ := newTestProductService()

	products.On("GetBySlug", "hidden").Return(&models.Product{Slug: "hidden", IsActive: false}, nil).Once()
	_, err := service.GetProductBySlug(context.Background(), "hidden")
	assert.ErrorIs(t, err, services.ErrNotFound)

	products.On("GetBySlug", "missing").Return(nil, fmt.Errorf("get: %w", repositories.ErrNotFound)).Once()
	_, err = service.GetProductBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "product not found", err.Error())
}

func TestProductService_DeleteProduct(t *testing.T) {
	service, products, _, _ := newTestProductService()

	products.On("Delete", "p-1").Return(nil).Once()
	products.On("Delete", "p-2").Return(fmt.Errorf("delete: %w", repositories.ErrNotFound)).Once()

	assert.NoError(t, service.DeleteProduct(context.Background(), "p-1"))
	assert.ErrorIs(t, service.DeleteProduct(context.Background(), "p-2"), services.ErrNotFound)
}

func TestCatalogService_CreateCategoryFromVietnameseName(t *testing.T) {
	categories := new(MockCategoryRepository)
	brands := new(MockBrandRepository)
	service := services.NewCatalogService(categories, brands)

	categories.On("SlugExists", "laptop-van-phong", "").Return(false, nil).Once()
	categories.On("Create", mock.AnythingOfType("*models.Category")).Return(nil).Once()

	category, err := service.CreateCategory(context.Background(), services.TaxonomyInput{Name: "Laptop Văn Phòng"})
	require.NoError(t, err)
	assert.Equal(t, "laptop-van-phong", category.Slug)

	brands.On("SlugExists", "asus", "").Return(false, nil).Once()
	brands.On("Create", mock.AnythingOfType("*models.Brand")).Return(nil).Once()
	brand, err := service.CreateBrand(context.Background(), services.TaxonomyInput{Name: "ASUS", Image: "https://cdn.example.com/asus.png"})
	require.NoError(t, err)
	assert.Equal(t, "asus", brand.Slug)
	assert.Equal(t, "https://cdn.example.com/asus.png", brand.Logo)
}
