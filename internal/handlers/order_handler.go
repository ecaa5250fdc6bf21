package handlers

import (
	"log"

	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout route. limit guards order creation.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	router.Post("/orders", limit, h.HandleCreateOrder)
}

// RegisterAdminRoutes registers order management routes.
func (h *OrderHandler) RegisterAdminRoutes(admin fiber.Router) {
	orderRoutes := admin.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetOrders lists orders, newest first, optionally by status or phone.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Status:     c.Query("status"),
		Phone:      c.Query("phone"),
		Pagination: pageFromQuery(c),
	}
	if filter.Phone != "" {
		filter.Phone = services.NormalizePhone(filter.Phone)
	}
	orders, total, err := h.service.ListOrders(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "getting orders")
	}
	return respondPage(c, orders, total, filter.Pagination)
}

// HandleGetOrder retrieves a single order by its ID or order number.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "getting order")
	}
	return respondData(c, fiber.StatusOK, order)
}

// HandleCreateOrder places an order from the storefront cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing order")
	}

	order, err := h.service.CreateOrder(c.UserContext(), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, err, "creating order")
	}

	// Return the created order with its new ID and a 201 Created status
	return respondData(c, fiber.StatusCreated, order)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
}

// HandleUpdateOrderStatus moves an order along its lifecycle.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing status update")
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", c.Params("id"), err)
		return respondError(c, err, "updating order status")
	}
	return respondData(c, fiber.StatusOK, order)
}
