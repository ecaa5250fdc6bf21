package repositories

import (
	"context"
	"time"

	"laptopshop/internal/models"

	"gorm.io/gorm"
)

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Status string
	Phone  string
	Pagination
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Order, error)
	// UpdateStatus moves the order from one status to another only if it is
	// still in from. It reports whether the row changed.
	UpdateStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error)
}

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create creates a new order together with its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return wrapError("failed to create order %s", err, order.OrderNumber)
	}
	return nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, wrapError("failed to get order %s", err, id)
	}
	return &order, nil
}

// GetByNumber retrieves an order by its human readable number.
func (r *GORMOrderRepository) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_number = ?", number).Error; err != nil {
		return nil, wrapError("failed to get order by number %s", err, number)
	}
	return &order, nil
}

// List retrieves one page of orders, newest first.
func (r *GORMOrderRepository) List(ctx context.Context, filter OrderFilter) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Phone != "" {
		query = query.Where("customer_phone = ?", filter.Phone)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapError("failed to count orders", err)
	}

	page := filter.Pagination.Normalize()
	var orders []models.Order
	if err := query.Preload("Items").Order("created_at desc").
		Limit(page.Limit).Offset(page.Offset()).Find(&orders).Error; err != nil {
		return nil, 0, wrapError("failed to list orders", err)
	}
	return orders, total, nil
}

// ListByPhone returns every order placed with phone, newest first.
func (r *GORMOrderRepository) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_phone = ?", phone).
		Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, wrapError("failed to list orders for phone %s", err, phone)
	}
	return orders, nil
}

// UpdateStatus performs a compare-and-swap on the status column and stamps
// the delivery or cancellation time when entering those states.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to, "updated_at": at}
	switch to {
	case models.OrderStatusDelivered:
		updates["delivered_at"] = at
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = at
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		UpdateColumns(updates)
	if res.Error != nil {
		return false, wrapError("failed to update status of order %s", res.Error, id)
	}
	return res.RowsAffected == 1, nil
}
