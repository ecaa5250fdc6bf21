package services

import (
	"context"
	"errors"
	"strings"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
)

// CustomerUpdate holds the editable profile fields of a customer. Spend and
// order count are derived from orders and cannot be edited.
type CustomerUpdate struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Address string   `json:"address" validate:"max=500"`
	Tags    []string `json:"tags" validate:"dive,max=30"`
	Note    string   `json:"note" validate:"max=2000"`
}

// CustomerService exposes the customer ledger.
type CustomerService struct {
	customerRepo repositories.CustomerRepository
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo repositories.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// ListCustomers retrieves one page of customers, biggest spenders first.
func (s *CustomerService) ListCustomers(ctx context.Context, filter repositories.CustomerFilter) ([]models.Customer, int64, error) {
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))
	return s.customerRepo.List(ctx, filter)
}

// GetCustomer looks a customer up by ID or phone number and loads its orders.
func (s *CustomerService) GetCustomer(ctx context.Context, ref string) (*models.Customer, error) {
	id := ref
	if IsValidPhone(ref) {
		c, err := s.customerRepo.GetByPhone(ctx, NormalizePhone(ref))
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			id = c.ID
		}
	}
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "customer")
	}
	return customer, nil
}

// UpdateCustomer replaces the profile fields, tags and note of a customer.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, in CustomerUpdate) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "customer")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationError("name is required")
	}

	customer.Name = strings.TrimSpace(in.Name)
	customer.Email = strings.ToLower(strings.TrimSpace(in.Email))
	customer.Address = strings.TrimSpace(in.Address)
	customer.Tags = normalizeTags(in.Tags)
	customer.Note = in.Note
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// normalizeTags lowercases, trims and deduplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
