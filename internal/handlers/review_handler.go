package handlers

import (
	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles storefront reviews and their moderation.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers the public review routes. limit guards submission.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	router.Get("/reviews", h.HandleListApproved)
	router.Post("/reviews", limit, h.HandleSubmitReview)
}

func (h *ReviewHandler) RegisterAdminRoutes(admin fiber.Router) {
	reviewRoutes := admin.Group("/reviews")
	reviewRoutes.Get("/", h.HandleListReviews)
	reviewRoutes.Patch("/:id/status", h.HandleModerate)
	reviewRoutes.Put("/:id/reply", h.HandleReply)
	reviewRoutes.Delete("/:id", h.HandleDeleteReview)
}

// HandleListApproved lists approved reviews, optionally of one product, with
// the average rating.
func (h *ReviewHandler) HandleListApproved(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	list, err := h.service.ListApproved(c.UserContext(), c.Query("product_id"), page)
	if err != nil {
		return respondError(c, err, "listing reviews")
	}
	return respondPage(c, list, list.Total, page)
}

func (h *ReviewHandler) HandleSubmitReview(c *fiber.Ctx) error {
	var req services.ReviewInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing review")
	}
	review, err := h.service.SubmitReview(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "submitting review")
	}
	return respondData(c, fiber.StatusCreated, review)
}

func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	filter := repositories.ReviewFilter{
		Status:     c.Query("status"),
		ProductID:  c.Query("product_id"),
		Pagination: pageFromQuery(c),
	}
	reviews, total, err := h.service.ListReviews(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing reviews")
	}
	return respondPage(c, reviews, total, filter.Pagination)
}

type moderateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (h *ReviewHandler) HandleModerate(c *fiber.Ctx) error {
	var req moderateRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing moderation")
	}
	review, err := h.service.Moderate(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err, "moderating review")
	}
	return respondData(c, fiber.StatusOK, review)
}

type replyRequest struct {
	Reply string `json:"reply" validate:"max=2000"`
}

func (h *ReviewHandler) HandleReply(c *fiber.Ctx) error {
	var req replyRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing reply")
	}
	review, err := h.service.Reply(c.UserContext(), c.Params("id"), req.Reply)
	if err != nil {
		return respondError(c, err, "replying to review")
	}
	return respondData(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	if err := h.service.DeleteReview(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "deleting review")
	}
	return respondMessage(c, fiber.StatusOK, "Review deleted")
}
