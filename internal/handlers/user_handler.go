package handlers

import (
	"laptopshop/internal/middleware"
	"laptopshop/internal/models"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler manages back-office accounts. Every route requires a superadmin.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) RegisterRoutes(admin fiber.Router) {
	userRoutes := admin.Group("/users", middleware.RequireRole(models.RoleSuperAdmin))
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Post("/:id/unlock", h.HandleUnlockUser)
	userRoutes.Post("/:id/reset-password", h.HandleResetPassword)
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err, "listing users")
	}
	return respondData(c, fiber.StatusOK, users)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing user")
	}
	user, err := h.authService.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "creating user")
	}
	return respondData(c, fiber.StatusCreated, user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req services.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing user")
	}
	user, err := h.authService.UpdateUser(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating user")
	}
	return respondData(c, fiber.StatusOK, user)
}

func (h *UserHandler) HandleUnlockUser(c *fiber.Ctx) error {
	user, err := h.authService.UnlockUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "unlocking user")
	}
	return respondData(c, fiber.StatusOK, user)
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (h *UserHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing password reset")
	}
	if err := h.authService.ResetPassword(c.UserContext(), c.Params("id"), req.Password); err != nil {
		return respondError(c, err, "resetting password")
	}
	return respondMessage(c, fiber.StatusOK, "Password updated")
}
