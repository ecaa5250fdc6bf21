package models

import "time"

// Order statuses. The happy path runs pending → confirmed → processing →
// shipped → delivered; cancelled may be entered from any non-terminal status.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCOD          = "cod"
	PaymentBankTransfer = "bank_transfer"
	PaymentCard         = "card"
)

var orderStatusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

// IsValidOrderStatus reports whether status is a known order status.
func IsValidOrderStatus(status string) bool {
	if status == OrderStatusCancelled {
		return true
	}
	_, ok := orderStatusRank[status]
	return ok
}

// CustomerSnapshot is the customer data captured at checkout time.
type CustomerSnapshot struct {
	Name    string `json:"name" gorm:"type:varchar(100)"`
	Phone   string `json:"phone" gorm:"type:varchar(20);index"`
	Email   string `json:"email" gorm:"type:varchar(255)"`
	Address string `json:"address" gorm:"type:varchar(500)"`
}

// OrderItem is a line of an order with name and price frozen at checkout.
type OrderItem struct {
	BaseModel
	OrderID     string `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID   string `json:"product_id" gorm:"type:varchar(36);index"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
}

// Order is a customer order.
type Order struct {
	BaseModel
	OrderNumber   string           `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	CustomerID    string           `json:"customer_id" gorm:"type:varchar(36);index"`
	Customer      CustomerSnapshot `json:"customer" gorm:"embedded;embeddedPrefix:customer_"`
	Items         []OrderItem      `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	TotalAmount   int64            `json:"total_amount"`
	Status        string           `json:"status" gorm:"type:varchar(20);index;not null;default:pending"`
	PaymentMethod string           `json:"payment_method" gorm:"type:varchar(20)"`
	Note          string           `json:"note"`
	DeliveredAt   *time.Time       `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// CanTransitionTo reports whether the order may move to next. Forward moves may
// skip steps; cancellation is allowed until the order is delivered.
func (o *Order) CanTransitionTo(next string) bool {
	if o.IsTerminal() || next == o.Status {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	cur, ok := orderStatusRank[o.Status]
	if !ok {
		return false
	}
	target, ok := orderStatusRank[next]
	return ok && target > cur
}
