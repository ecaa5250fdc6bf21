package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
	"laptopshop/internal/warranty"
)

// WarrantyService answers warranty lookups from orders and product data.
type WarrantyService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	now         func() time.Time
}

// NewWarrantyService creates a new WarrantyService.
func NewWarrantyService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) *WarrantyService {
	return &WarrantyService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// Lookup finds the orders matching query, a phone number or an order ID or
// number, and computes the warranty of every item.
func (s *WarrantyService) Lookup(ctx context.Context, query string) ([]warranty.OrderWarranty, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("query is required")
	}

	orders, err := s.findOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, translate(repositories.ErrNotFound, "order")
	}

	months, err := s.warrantyMonths(ctx, orders)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]warranty.OrderWarranty, 0, len(orders))
	for i := range orders {
		result = append(result, warranty.Evaluate(&orders[i], months, now))
	}
	return result, nil
}

func (s *WarrantyService) findOrders(ctx context.Context, query string) ([]models.Order, error) {
	if IsValidPhone(query) {
		return s.orderRepo.ListByPhone(ctx, NormalizePhone(query))
	}

	order, err := s.orderRepo.GetByNumber(ctx, strings.ToUpper(query))
	if errors.Is(err, repositories.ErrNotFound) {
		order, err = s.orderRepo.GetByID(ctx, query)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []models.Order{*order}, nil
}

func (s *WarrantyService) warrantyMonths(ctx context.Context, orders []models.Order) (map[string]int, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID != "" && !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	months := make(map[string]int, len(products))
	for i := range products {
		months[products[i].ID] = products[i].WarrantyOrDefault()
	}
	return months, nil
}
