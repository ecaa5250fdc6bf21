package handlers

import (
	"strings"

	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the storefront product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:slug", h.HandleGetProductBySlug)
}

// RegisterAdminRoutes registers product management routes.
func (h *ProductHandler) RegisterAdminRoutes(admin fiber.Router) {
	productRoutes := admin.Group("/products")
	productRoutes.Get("/", h.HandleAdminListProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

func productFilterFromQuery(c *fiber.Ctx) repositories.ProductFilter {
	return repositories.ProductFilter{
		CategorySlug: c.Query("category"),
		BrandSlug:    c.Query("brand"),
		MinPrice:     int64(c.QueryInt("min_price")),
		MaxPrice:     int64(c.QueryInt("max_price")),
		Query:        strings.TrimSpace(c.Query("q")),
		Featured:     c.QueryBool("featured"),
		Sort:         c.Query("sort"),
		Pagination:   pageFromQuery(c),
	}
}

// HandleListProducts lists active products with the catalog filters.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := productFilterFromQuery(c)
	filter.ActiveOnly = true
	products, total, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing products")
	}
	return respondPage(c, products, total, filter.Pagination)
}

// HandleAdminListProducts lists every product including inactive ones.
func (h *ProductHandler) HandleAdminListProducts(c *fiber.Ctx) error {
	filter := productFilterFromQuery(c)
	products, total, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing products")
	}
	return respondPage(c, products, total, filter.Pagination)
}

func (h *ProductHandler) HandleGetProductBySlug(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "getting product")
	}
	return respondData(c, fiber.StatusOK, product)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "getting product")
	}
	return respondData(c, fiber.StatusOK, product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing product")
	}
	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "creating product")
	}
	return respondData(c, fiber.StatusCreated, product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing product")
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating product")
	}
	return respondData(c, fiber.StatusOK, product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "deleting product")
	}
	return respondMessage(c, fiber.StatusOK, "Product deleted")
}
