package handlers

import (
	"laptopshop/internal/repositories"
	"laptopshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PostHandler serves the blog.
type PostHandler struct {
	service *services.PostService
}

func NewPostHandler(service *services.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/posts", h.HandleListPublished)
	router.Get("/posts/:slug", h.HandleReadPost)
}

func (h *PostHandler) RegisterAdminRoutes(admin fiber.Router) {
	postRoutes := admin.Group("/posts")
	postRoutes.Get("/", h.HandleListPosts)
	postRoutes.Get("/:id", h.HandleGetPost)
	postRoutes.Post("/", h.HandleCreatePost)
	postRoutes.Put("/:id", h.HandleUpdatePost)
	postRoutes.Delete("/:id", h.HandleDeletePost)
}

func (h *PostHandler) HandleListPublished(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	posts, total, err := h.service.ListPublished(c.UserContext(), c.Query("tag"), page)
	if err != nil {
		return respondError(c, err, "listing posts")
	}
	return respondPage(c, posts, total, page)
}

func (h *PostHandler) HandleReadPost(c *fiber.Ctx) error {
	post, err := h.service.ReadPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "reading post")
	}
	return respondData(c, fiber.StatusOK, post)
}

func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	filter := repositories.PostFilter{
		Tag:        c.Query("tag"),
		Pagination: pageFromQuery(c),
	}
	posts, total, err := h.service.ListPosts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "listing posts")
	}
	return respondPage(c, posts, total, filter.Pagination)
}

func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.service.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "getting post")
	}
	return respondData(c, fiber.StatusOK, post)
}

func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req services.PostInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing post")
	}
	post, err := h.service.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "creating post")
	}
	return respondData(c, fiber.StatusCreated, post)
}

func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var req services.PostInput
	if err := bind(c, &req); err != nil {
		return respondError(c, err, "parsing post")
	}
	post, err := h.service.UpdatePost(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err, "updating post")
	}
	return respondData(c, fiber.StatusOK, post)
}

func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	if err := h.service.DeletePost(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "deleting post")
	}
	return respondMessage(c, fiber.StatusOK, "Post deleted")
}
