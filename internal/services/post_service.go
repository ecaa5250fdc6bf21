package services

import (
	"context"
	"log"
	"strings"
	"time"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
)

// PostInput is the admin payload for a blog post.
type PostInput struct {
	Title      string   `json:"title" validate:"required,max=250"`
	Slug       string   `json:"slug" validate:"max=270"`
	Excerpt    string   `json:"excerpt" validate:"max=500"`
	Content    string   `json:"content" validate:"required"`
	CoverImage string   `json:"cover_image" validate:"omitempty,url"`
	Tags       []string `json:"tags" validate:"dive,max=30"`
	Author     string   `json:"author" validate:"max=100"`
	Published  bool     `json:"published"`
}

// PostService manages the blog.
type PostService struct {
	postRepo repositories.PostRepository
	now      func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository) *PostService {
	return &PostService{postRepo: postRepo, now: time.Now}
}

// ListPublished returns published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context, tag string, page repositories.Pagination) ([]models.Post, int64, error) {
	return s.postRepo.List(ctx, repositories.PostFilter{
		PublishedOnly: true,
		Tag:           strings.ToLower(strings.TrimSpace(tag)),
		Pagination:    page,
	})
}

// ReadPost returns a published post and counts the view.
func (s *PostService) ReadPost(ctx context.Context, postSlug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, translate(err, "post")
	}
	if !post.Published {
		return nil, translate(repositories.ErrNotFound, "post")
	}
	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		log.Printf("Error counting view of post %s: %v", post.ID, err)
	} else {
		post.Views++
	}
	return post, nil
}

// ListPosts returns every post including drafts.
func (s *PostService) ListPosts(ctx context.Context, filter repositories.PostFilter) ([]models.Post, int64, error) {
	return s.postRepo.List(ctx, filter)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	return post, nil
}

// CreatePost creates a post with a slug derived from the title when absent.
func (s *PostService) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	postSlug, err := resolveSlug(in.Slug, in.Title, func(c string) (bool, error) {
		return s.postRepo.SlugExists(ctx, c, "")
	})
	if err != nil {
		return nil, err
	}
	post := &models.Post{Slug: postSlug}
	s.apply(post, in)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, translate(err, "post slug")
	}
	return post, nil
}

// UpdatePost replaces a post. PublishedAt is stamped the first time the post
// is published and kept afterwards.
func (s *PostService) UpdatePost(ctx context.Context, id string, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if in.Slug != "" || strings.TrimSpace(in.Title) != post.Title {
		postSlug, err := resolveSlug(in.Slug, in.Title, func(c string) (bool, error) {
			return s.postRepo.SlugExists(ctx, c, id)
		})
		if err != nil {
			return nil, err
		}
		post.Slug = postSlug
	}
	s.apply(post, in)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, translate(err, "post slug")
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return translate(s.postRepo.Delete(ctx, id), "post")
}

func (s *PostService) apply(post *models.Post, in PostInput) {
	post.Title = strings.TrimSpace(in.Title)
	post.Excerpt = in.Excerpt
	post.Content = in.Content
	post.CoverImage = in.CoverImage
	post.Tags = normalizeTags(in.Tags)
	post.Author = in.Author
	post.Published = in.Published
	if post.Published && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}
}
