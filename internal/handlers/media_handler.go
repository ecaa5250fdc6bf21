package handlers

import (
	"context"

	"laptopshop/internal/media"

	"github.com/gofiber/fiber/v2"
)

// ImagePresigner hands out upload URLs for product images.
type ImagePresigner interface {
	PresignUpload(ctx context.Context, folder, filename, contentType string) (*media.Upload, error)
}

// MediaHandler issues presigned image uploads.
type MediaHandler struct {
	presigner ImagePresigner
}

// NewMediaHandler creates a new MediaHandler. A nil presigner makes every
// request fail with 503.
func NewMediaHandler(presigner ImagePresigner) *MediaHandler {
	return &MediaHandler{presigner: presigner}
}

func (h *MediaHandler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Post("/media/presign", h.HandlePresign)
}

type presignRequest struct {
	Folder      string `json:"folder" validate:"max=50"`
	Filename    string `json:"filename" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"required"`
}

func (h *MediaHandler) HandlePresign(c *fiber.Ctx) error {
	if h.presigner == nil {
		return respondError(c, ErrStorageNotConfigured, "presigning upload")
	}
	var req presignRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing presign request")
	}
	upload, err := h.presigner.PresignUpload(c.UserContext(), req.Folder, req.Filename, req.ContentType)
	if err != nil {
		return respondError(c, err, "presigning upload")
	}
	return respondData(c, fiber.StatusOK, upload)
}
