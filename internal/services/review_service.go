package services

import (
	"context"
	"math"
	"strings"
	"time"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
)

// ReviewInput is a review submitted from the storefront.
type ReviewInput struct {
	ProductID     *string `json:"product_id"`
	CustomerName  string  `json:"customer_name" validate:"required,max=100"`
	CustomerPhone string  `json:"customer_phone" validate:"omitempty,vnphone"`
	Rating        int     `json:"rating" validate:"required,min=1,max=5"`
	Content       string  `json:"content" validate:"required,min=5,max=2000"`
}

// ReviewList is a page of approved reviews with their aggregate rating.
type ReviewList struct {
	Reviews []models.Review `json:"reviews"`
	Total   int64           `json:"total"`
	Average float64         `json:"average"`
	Count   int             `json:"count"`
}

// ReviewService handles submission and moderation of reviews.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
	now         func() time.Time
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// SubmitReview stores a review awaiting moderation.
func (s *ReviewService) SubmitReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, validationError("rating must be between 1 and 5")
	}
	if strings.TrimSpace(in.Content) == "" || strings.TrimSpace(in.CustomerName) == "" {
		return nil, validationError("name and content are required")
	}

	productID := emptyToNil(in.ProductID)
	if productID != nil {
		if _, err := s.productRepo.GetByID(ctx, *productID); err != nil {
			return nil, translate(err, "product")
		}
	}

	review := &models.Review{
		ProductID:     productID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: NormalizePhone(in.CustomerPhone),
		Rating:        in.Rating,
		Content:       strings.TrimSpace(in.Content),
		Status:        models.ReviewPending,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListApproved returns approved reviews of a product, or of the shop when
// productID is empty, together with the average rating.
func (s *ReviewService) ListApproved(ctx context.Context, productID string, page repositories.Pagination) (*ReviewList, error) {
	reviews, total, err := s.reviewRepo.List(ctx, repositories.ReviewFilter{
		Status:     models.ReviewApproved,
		ProductID:  productID,
		ShopOnly:   productID == "",
		Pagination: page,
	})
	if err != nil {
		return nil, err
	}
	stats, err := s.reviewRepo.RatingStats(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ReviewList{
		Reviews: reviews,
		Total:   total,
		Average: roundRating(stats.Average),
		Count:   stats.Count,
	}, nil
}

// ListReviews returns reviews for moderation.
func (s *ReviewService) ListReviews(ctx context.Context, filter repositories.ReviewFilter) ([]models.Review, int64, error) {
	if filter.Status != "" && !isReviewStatus(filter.Status) {
		return nil, 0, validationError("unknown review status %q", filter.Status)
	}
	return s.reviewRepo.List(ctx, filter)
}

// Moderate approves or rejects a review and refreshes the product rating.
func (s *ReviewService) Moderate(ctx context.Context, id, status string) (*models.Review, error) {
	if status != models.ReviewApproved && status != models.ReviewRejected {
		return nil, validationError("status must be approved or rejected")
	}
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "review")
	}
	review.Status = status
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	if err := s.refreshRating(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// Reply sets the shop reply of a review. An empty text removes it.
func (s *ReviewService) Reply(ctx context.Context, id, text string) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "review")
	}
	text = strings.TrimSpace(text)
	review.Reply = text
	if text == "" {
		review.RepliedAt = nil
	} else {
		now := s.now()
		review.RepliedAt = &now
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and refreshes the product rating.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "review")
	}
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return translate(err, "review")
	}
	return s.refreshRating(ctx, review.ProductID)
}

func (s *ReviewService) refreshRating(ctx context.Context, productID *string) error {
	if productID == nil {
		return nil
	}
	stats, err := s.reviewRepo.RatingStats(ctx, *productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(ctx, *productID, roundRating(stats.Average), stats.Count)
}

func isReviewStatus(status string) bool {
	switch status {
	case models.ReviewPending, models.ReviewApproved, models.ReviewRejected:
		return true
	}
	return false
}

func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
