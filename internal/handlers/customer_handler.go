package handlers

import (
	"strings"

	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CustomerHandler exposes the customer ledger to the back office.
type CustomerHandler struct {
	service *services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(service *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) RegisterAdminRoutes(admin fiber.Router) {
	customerRoutes := admin.Group("/customers")
	customerRoutes.Get("/", h.HandleListCustomers)
	customerRoutes.Get("/:id", h.HandleGetCustomer)
	customerRoutes.Put("/:id", h.HandleUpdateCustomer)
}

func (h *CustomerHandler) HandleListCustomers(c *fiber.Ctx) error {
	filter := repositories.CustomerFilter{
		Search:     strings.TrimSpace(c.Query("q")),
		Tag:        c.Query("tag"),
		Pagination: pageFromQuery(c),
	}
	customers, total, err := h.service.ListCustomers(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing customers")
	}
	return respondPage(c, customers, total, filter.Pagination)
}

// HandleGetCustomer accepts an ID or a phone number.
func (h *CustomerHandler) HandleGetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "getting customer")
	}
	return respondData(c, fiber.StatusOK, customer)
}

func (h *CustomerHandler) HandleUpdateCustomer(c *fiber.Ctx) error {
	var req services.CustomerUpdate
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing customer")
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating customer")
	}
	return respondData(c, fiber.StatusOK, customer)
}
