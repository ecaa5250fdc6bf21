package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"

	"github.com/google/uuid"
)

const (
	// checkoutAttempts bounds retries of a checkout that lost a race on a
	// unique key (customer phone or order number).
	checkoutAttempts = 3
	// VIPTag is added automatically once a customer crosses the spend threshold.
	VIPTag = "vip"
)

// CheckoutCustomer is the buyer part of a checkout payload.
type CheckoutCustomer struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,vnphone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"required,max=500"`
}

// CheckoutItem is one cart line.
type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// CheckoutRequest is the storefront cart submitted at checkout.
type CheckoutRequest struct {
	Customer      CheckoutCustomer `json:"customer" validate:"required"`
	Items         []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cod bank_transfer card"`
	Note          string           `json:"note" validate:"max=1000"`
}

// OrderService handles business logic related to orders and the customer
// ledger they feed.
type OrderService struct {
	store        *repositories.Store
	publisher    OrderEventPublisher
	vipThreshold int64
	now          func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no notifications are sent.
func NewOrderService(store *repositories.Store, publisher OrderEventPublisher, vipThreshold int64) *OrderService {
	return &OrderService{
		store:        store,
		publisher:    publisher,
		vipThreshold: vipThreshold,
		now:          time.Now,
	}
}

// CreateOrder places an order. Stock, the customer ledger and the order are
// written in one transaction; the order event is published after commit.
func (s *OrderService) CreateOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	lines, err := mergeCheckoutItems(req.Items)
	if err != nil {
		return nil, err
	}
	snapshot, err := checkoutSnapshot(req.Customer)
	if err != nil {
		return nil, err
	}
	switch req.PaymentMethod {
	case models.PaymentCOD, models.PaymentBankTransfer, models.PaymentCard:
	default:
		return nil, validationError("unsupported payment method %q", req.PaymentMethod)
	}

	var order *models.Order
	for attempt := 1; attempt <= checkoutAttempts; attempt++ {
		err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
			var txErr error
			order, txErr = s.placeOrder(ctx, tx, snapshot, lines, req)
			return txErr
		})
		if err == nil || !errors.Is(err, repositories.ErrDuplicate) {
			break
		}
		log.Printf("Checkout for %s hit a concurrent write (attempt %d): %v", snapshot.Phone, attempt, err)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("order %w, please retry", ErrConflict)
		}
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, NewOrderEvent(order)); err != nil {
			log.Printf("Warning: Failed to publish order created event for order %s: %v", order.OrderNumber, err)
		}
	}
	return order, nil
}

func (s *OrderService) placeOrder(ctx context.Context, tx *repositories.Store, snapshot models.CustomerSnapshot, lines []CheckoutItem, req CheckoutRequest) (*models.Order, error) {
	now := s.now()
	order := &models.Order{
		OrderNumber:   newOrderNumber(now),
		Customer:      snapshot,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		Note:          strings.TrimSpace(req.Note),
		Items:         make([]models.OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		product, err := tx.Products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, translate(err, "product "+line.ProductID)
		}
		if !product.IsActive {
			return nil, translate(repositories.ErrNotFound, "product "+line.ProductID)
		}

		ok, err := tx.Products.AdjustStock(ctx, product.ID, -line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s has %d left, %d requested", ErrInsufficientStock, product.Name, product.Stock, line.Quantity)
		}

		price := product.EffectivePrice()
		item := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       price,
			Quantity:    line.Quantity,
			LineTotal:   price * int64(line.Quantity),
		}
		order.Items = append(order.Items, item)
		order.TotalAmount += item.LineTotal
	}

	customer, err := s.recordSpend(ctx, tx, snapshot, order.TotalAmount)
	if err != nil {
		return nil, err
	}
	order.CustomerID = customer.ID

	if err := tx.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// recordSpend upserts the customer keyed by phone and adds amount to its
// lifetime spend.
func (s *OrderService) recordSpend(ctx context.Context, tx *repositories.Store, snapshot models.CustomerSnapshot, amount int64) (*models.Customer, error) {
	customer, err := tx.Customers.GetByPhone(ctx, snapshot.Phone)
	if errors.Is(err, repositories.ErrNotFound) {
		customer = &models.Customer{
			Phone:      snapshot.Phone,
			Name:       snapshot.Name,
			Email:      snapshot.Email,
			Address:    snapshot.Address,
			TotalSpent: amount,
			OrderCount: 1,
			Tags:       []string{},
		}
		s.applyAutoTags(customer)
		if err := tx.Customers.Create(ctx, customer); err != nil {
			return nil, err
		}
		return customer, nil
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Customers.AddSpend(ctx, customer.ID, amount); err != nil {
		return nil, err
	}
	customer.TotalSpent += amount
	customer.OrderCount++
	customer.Name = snapshot.Name
	customer.Address = snapshot.Address
	if snapshot.Email != "" {
		customer.Email = snapshot.Email
	}
	s.applyAutoTags(customer)
	if err := tx.Customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *OrderService) applyAutoTags(c *models.Customer) {
	if s.vipThreshold > 0 && c.TotalSpent >= s.vipThreshold {
		c.AddTag(VIPTag)
	}
}

// ListOrders retrieves one page of orders.
func (s *OrderService) ListOrders(ctx context.Context, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !models.IsValidOrderStatus(filter.Status) {
		return nil, 0, validationError("unknown order status %q", filter.Status)
	}
	if filter.Phone != "" {
		filter.Phone = NormalizePhone(filter.Phone)
	}
	return s.store.Orders.List(ctx, filter)
}

// GetOrder looks an order up by ID or by order number.
func (s *OrderService) GetOrder(ctx context.Context, ref string) (*models.Order, error) {
	order, err := s.store.Orders.GetByID(ctx, ref)
	if errors.Is(err, repositories.ErrNotFound) {
		order, err = s.store.Orders.GetByNumber(ctx, strings.ToUpper(ref))
	}
	if err != nil {
		return nil, translate(err, "order")
	}
	return order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Delivery stamps the
// delivery time; cancellation puts the stock back. Customer spend is never
// reduced.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, validationError("unknown order status %q", status)
	}

	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		order, err := tx.Orders.GetByID(ctx, id)
		if err != nil {
			return translate(err, "order")
		}
		if !order.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, order.Status, status)
		}

		ok, err := tx.Orders.UpdateStatus(ctx, order.ID, order.Status, status, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %s changed concurrently", ErrInvalidStatusTransition, order.OrderNumber)
		}

		if status == models.OrderStatusCancelled {
			for _, item := range order.Items {
				if item.ProductID == "" {
					continue
				}
				if _, err := tx.Products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s moved to %s", id, status)
	return s.GetOrder(ctx, id)
}

func mergeCheckoutItems(items []CheckoutItem) ([]CheckoutItem, error) {
	if len(items) == 0 {
		return nil, validationError("at least one item is required")
	}
	merged := make([]CheckoutItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ProductID)
		if id == "" {
			return nil, validationError("product_id is required")
		}
		if item.Quantity < 1 {
			return nil, validationError("quantity of %s must be at least 1", id)
		}
		if i, ok := index[id]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, CheckoutItem{ProductID: id, Quantity: item.Quantity})
	}
	return merged, nil
}

func checkoutSnapshot(c CheckoutCustomer) (models.CustomerSnapshot, error) {
	snapshot := models.CustomerSnapshot{
		Name:    strings.TrimSpace(c.Name),
		Phone:   NormalizePhone(c.Phone),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Address: strings.TrimSpace(c.Address),
	}
	if snapshot.Name == "" || snapshot.Address == "" {
		return snapshot, validationError("customer name and address are required")
	}
	if !IsValidPhone(snapshot.Phone) {
		return snapshot, validationError("invalid phone number %q", c.Phone)
	}
	return snapshot, nil
}

// newOrderNumber returns a number like DH240501-3F9A1C.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("DH%s-%s", now.Format("060102"), suffix)
}
