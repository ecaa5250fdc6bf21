package handlers

import (
	"strings"

	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SoftwareHandler serves the driver and utility download directory.
type SoftwareHandler struct {
	service *services.SoftwareService
}

func NewSoftwareHandler(service *services.SoftwareService) *SoftwareHandler {
	return &SoftwareHandler{service: service}
}

func (h *SoftwareHandler) RegisterRoutes(router fiber.Router) {
	softwareRoutes := router.Group("/software")
	softwareRoutes.Get("/", h.HandleListSoftware)
	softwareRoutes.Get("/:slug", h.HandleGetSoftware)
	softwareRoutes.Get("/:slug/download", h.HandleDownload)
}

func (h *SoftwareHandler) RegisterAdminRoutes(admin fiber.Router) {
	softwareRoutes := admin.Group("/software")
	softwareRoutes.Get("/", h.HandleAdminListSoftware)
	softwareRoutes.Get("/:id", h.HandleAdminGetSoftware)
	softwareRoutes.Post("/", h.HandleCreateSoftware)
	softwareRoutes.Put("/:id", h.HandleUpdateSoftware)
	softwareRoutes.Delete("/:id", h.HandleDeleteSoftware)
}

func softwareFilterFromQuery(c *fiber.Ctx) repositories.SoftwareFilter {
	return repositories.SoftwareFilter{
		Category:   strings.ToLower(c.Query("category")),
		Platform:   strings.ToLower(c.Query("platform")),
		Query:      strings.TrimSpace(c.Query("q")),
		Pagination: pageFromQuery(c),
	}
}

func (h *SoftwareHandler) HandleListSoftware(c *fiber.Ctx) error {
	filter := softwareFilterFromQuery(c)
	filter.ActiveOnly = true
	items, total, err := h.service.ListSoftware(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing software")
	}
	return respondPage(c, items, total, filter.Pagination)
}

func (h *SoftwareHandler) HandleGetSoftware(c *fiber.Ctx) error {
	item, err := h.service.GetPublicSoftware(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "getting software")
	}
	return respondData(c, fiber.StatusOK, item)
}

// HandleDownload counts the download and returns the file URL. With
// ?redirect=true the client is sent straight to the file.
func (h *SoftwareHandler) HandleDownload(c *fiber.Ctx) error {
	url, err := h.service.Download(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "downloading software")
	}
	if c.QueryBool("redirect") {
		return c.Redirect(url, fiber.StatusFound)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"download_url": url})
}

func (h *SoftwareHandler) HandleAdminListSoftware(c *fiber.Ctx) error {
	filter := softwareFilterFromQuery(c)
	items, total, err := h.service.ListSoftware(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing software")
	}
	return respondPage(c, items, total, filter.Pagination)
}

func (h *SoftwareHandler) HandleAdminGetSoftware(c *fiber.Ctx) error {
	item, err := h.service.GetSoftware(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "getting software")
	}
	return respondData(c, fiber.StatusOK, item)
}

func (h *SoftwareHandler) HandleCreateSoftware(c *fiber.Ctx) error {
	var req services.SoftwareInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing software")
	}
	item, err := h.service.CreateSoftware(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "creating software")
	}
	return respondData(c, fiber.StatusCreated, item)
}

func (h *SoftwareHandler) HandleUpdateSoftware(c *fiber.Ctx) error {
	var req services.SoftwareInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing software")
	}
	item, err := h.service.UpdateSoftware(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating software")
	}
	return respondData(c, fiber.StatusOK, item)
}

func (h *SoftwareHandler) HandleDeleteSoftware(c *fiber.Ctx) error {
	if err := h.service.DeleteSoftware(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "deleting software")
	}
	return respondMessage(c, fiber.StatusOK, "Software deleted")
}
