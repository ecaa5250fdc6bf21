package handlers

import (
	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AIHandler exposes the generative helpers.
type AIHandler struct {
	service *services.AIService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(service *services.AIService) *AIHandler {
	return &AIHandler{service: service}
}

// RegisterRoutes registers the storefront search. limit guards it.
func (h *AIHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	router.Post("/ai/search", limit, h.HandleSearch)
}

// RegisterAdminRoutes registers the back-office helpers. limit guards them.
func (h *AIHandler) RegisterAdminRoutes(admin fiber.Router, limit fiber.Handler) {
	aiRoutes := admin.Group("/ai", limit)
	aiRoutes.Post("/parse-specs", h.HandleParseSpecs)
	aiRoutes.Post("/marketing-copy", h.HandleMarketingCopy)
}

type searchRequest struct {
	Query string `json:"query" validate:"required,max=200"`
	Page  int    `json:"page" validate:"gte=0"`
	Limit int    `json:"limit" validate:"gte=0"`
}

// HandleSearch answers a natural language product search.
func (h *AIHandler) HandleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing search")
	}
	page := repositories.Pagination{Page: req.Page, Limit: req.Limit}.Normalize()
	result, err := h.service.SearchProducts(c.UserContext(), req.Query, page)
	if err != nil {
		return respondError(c, err, "searching products")
	}
	return respondData(c, fiber.StatusOK, result)
}

type parseSpecsRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

func (h *AIHandler) HandleParseSpecs(c *fiber.Ctx) error {
	var req parseSpecsRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing specs request")
	}
	specs, err := h.service.ParseProductSpecs(c.UserContext(), req.Text)
	if err != nil {
		return respondError(c, err, "extracting specs")
	}
	return respondData(c, fiber.StatusOK, specs)
}

func (h *AIHandler) HandleMarketingCopy(c *fiber.Ctx) error {
	var req services.MarketingRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing marketing request")
	}
	mc, err := h.service.GenerateMarketingCopy(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "generating marketing copy")
	}
	return respondData(c, fiber.StatusOK, mc)
}
