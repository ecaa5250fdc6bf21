// Package warranty projects per-item warranty coverage from delivered orders.
// Nothing here is cached or persisted; callers evaluate on every request.
package warranty

import (
	"math"
	"time"

	"laptopshop/internal/models"
)

// Item warranty statuses.
const (
	StatusPendingDelivery = "pending_delivery"
	StatusActive          = "active"
	StatusExpired         = "expired"
)

const day = 24 * time.Hour

// ItemWarranty is the coverage of one order line.
type ItemWarranty struct {
	ProductID      string     `json:"product_id"`
	ProductName    string     `json:"product_name"`
	Quantity       int        `json:"quantity"`
	WarrantyMonths int        `json:"warranty_months"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	Status         string     `json:"status"`
	RemainingDays  int        `json:"remaining_days"`
}

// OrderWarranty groups the item warranties of one order.
type OrderWarranty struct {
	OrderID     string         `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	OrderStatus string         `json:"order_status"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []ItemWarranty `json:"items"`
}

// Evaluate computes the warranty of every item of order. months maps product
// IDs to their warranty length; missing or non-positive entries mean 12.
func Evaluate(order *models.Order, months map[string]int, now time.Time) OrderWarranty {
	result := OrderWarranty{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OrderStatus: order.Status,
		CreatedAt:   order.CreatedAt,
		Items:       make([]ItemWarranty, 0, len(order.Items)),
	}

	var deliveredAt *time.Time
	if order.Status == models.OrderStatusDelivered && order.DeliveredAt != nil {
		deliveredAt = order.DeliveredAt
	}

	for _, item := range order.Items {
		m := months[item.ProductID]
		if m <= 0 {
			m = models.DefaultWarrantyMonths
		}
		result.Items = append(result.Items, evaluateItem(item, m, deliveredAt, now))
	}
	return result
}

func evaluateItem(item models.OrderItem, months int, deliveredAt *time.Time, now time.Time) ItemWarranty {
	w := ItemWarranty{
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		Quantity:       item.Quantity,
		WarrantyMonths: months,
		Status:         StatusPendingDelivery,
	}
	if deliveredAt == nil {
		return w
	}

	delivered := *deliveredAt
	expires := Expiry(delivered, months)
	w.DeliveredAt = &delivered
	w.ExpiresAt = &expires

	if now.Before(expires) {
		w.Status = StatusActive
		w.RemainingDays = RemainingDays(expires, now)
	} else {
		w.Status = StatusExpired
	}
	return w
}

// Expiry returns deliveredAt plus months calendar months.
func Expiry(deliveredAt time.Time, months int) time.Time {
	return deliveredAt.AddDate(0, months, 0)
}

// RemainingDays is ceil((expires-now)/day), never negative.
func RemainingDays(expires, now time.Time) int {
	left := expires.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(float64(left) / float64(day)))
}
