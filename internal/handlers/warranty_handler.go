package handlers

import (
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WarrantyHandler answers public warranty lookups.
type WarrantyHandler struct {
	service *services.WarrantyService
}

func NewWarrantyHandler(service *services.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{service: service}
}

func (h *WarrantyHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/warranty", h.HandleLookup)
}

// HandleLookup resolves ?q= as a phone number or an order reference.
func (h *WarrantyHandler) HandleLookup(c *fiber.Ctx) error {
	results, err := h.service.Lookup(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "looking up warranty")
	}
	return respondData(c, fiber.StatusOK, results)
}
