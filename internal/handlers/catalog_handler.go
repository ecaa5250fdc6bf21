package handlers

import (
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves categories and brands.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleListCategories)
	router.Get("/categories/:slug", h.HandleGetCategory)
	router.Get("/brands", h.HandleListBrands)
	router.Get("/brands/:slug", h.HandleGetBrand)
}

func (h *CatalogHandler) RegisterAdminRoutes(admin fiber.Router) {
	categoryRoutes := admin.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)

	brandRoutes := admin.Group("/brands")
	brandRoutes.Get("/", h.HandleListBrands)
	brandRoutes.Post("/", h.HandleCreateBrand)
	brandRoutes.Put("/:id", h.HandleUpdateBrand)
	brandRoutes.Delete("/:id", h.HandleDeleteBrand)
}

func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err, "listing categories")
	}
	return respondData(c, fiber.StatusOK, categories)
}

func (h *CatalogHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "getting category")
	}
	return respondData(c, fiber.StatusOK, category)
}

func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req services.TaxonomyInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing category")
	}
	category, err := h.service.CreateCategory(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "creating category")
	}
	return respondData(c, fiber.StatusCreated, category)
}

func (h *CatalogHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var req services.TaxonomyInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing category")
	}
	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating category")
	}
	return respondData(c, fiber.StatusOK, category)
}

func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "deleting category")
	}
	return respondMessage(c, fiber.StatusOK, "Category deleted")
}

func (h *CatalogHandler) HandleListBrands(c *fiber.Ctx) error {
	brands, err := h.service.ListBrands(c.UserContext())
	if err != nil {
		return respondError(c, err, "listing brands")
	}
	return respondData(c, fiber.StatusOK, brands)
}

func (h *CatalogHandler) HandleGetBrand(c *fiber.Ctx) error {
	brand, err := h.service.GetBrandBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "getting brand")
	}
	return respondData(c, fiber.StatusOK, brand)
}

func (h *CatalogHandler) HandleCreateBrand(c *fiber.Ctx) error {
	var req services.TaxonomyInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing brand")
	}
	brand, err := h.service.CreateBrand(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "creating brand")
	}
	return respondData(c, fiber.StatusCreated, brand)
}

func (h *CatalogHandler) HandleUpdateBrand(c *fiber.Ctx) error {
	var req services.TaxonomyInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing brand")
	}
	brand, err := h.service.UpdateBrand(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating brand")
	}
	return respondData(c, fiber.StatusOK, brand)
}

func (h *CatalogHandler) HandleDeleteBrand(c *fiber.Ctx) error {
	if err := h.service.DeleteBrand(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "deleting brand")
	}
	return respondMessage(c, fiber.StatusOK, "Brand deleted")
}
