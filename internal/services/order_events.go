package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"laptopshop/internal/models"
	"laptopshop/pkg/rabbitmq"
)

// OrderEventItem is one line of an OrderEvent.
type OrderEventItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	LineTotal   int64  `json:"line_total"`
}

// OrderEvent is emitted once an order has been committed.
type OrderEvent struct {
	OrderID       string           `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
	CustomerEmail string           `json:"customer_email,omitempty"`
	Address       string           `json:"address"`
	PaymentMethod string           `json:"payment_method"`
	Note          string           `json:"note,omitempty"`
	TotalAmount   int64            `json:"total_amount"`
	Items         []OrderEventItem `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewOrderEvent builds the event for a committed order.
func NewOrderEvent(order *models.Order) OrderEvent {
	ev := OrderEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.Customer.Name,
		CustomerPhone: order.Customer.Phone,
		CustomerEmail: order.Customer.Email,
		Address:       order.Customer.Address,
		PaymentMethod: order.PaymentMethod,
		Note:          order.Note,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
		Items:         make([]OrderEventItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		ev.Items = append(ev.Items, OrderEventItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			LineTotal:   item.LineTotal,
		})
	}
	return ev
}

// OrderEventPublisher hands order events to whatever delivers notifications.
// Implementations must not block on the delivery itself.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event OrderEvent) error
}

// OrderEventHandler processes a delivered order event.
type OrderEventHandler interface {
	Notify(ctx context.Context, event OrderEvent) error
}

// MQPublisher publishes order events to RabbitMQ.
type MQPublisher struct {
	client *rabbitmq.Client
}

// NewMQPublisher creates a new MQPublisher.
func NewMQPublisher(client *rabbitmq.Client) *MQPublisher {
	return &MQPublisher{client: client}
}

func (p *MQPublisher) PublishOrderCreated(ctx context.Context, event OrderEvent) error {
	return p.client.PublishJSON(rabbitmq.OrderCreatedKey, event)
}

// DecodeOrderEvent returns a RabbitMQ message handler that decodes order
// events and passes them to handler.
func DecodeOrderEvent(handler OrderEventHandler) func(body []byte) error {
	return func(body []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			// a malformed message will never succeed, so do not requeue it
			log.Printf("Dropping malformed order event: %v", err)
			return nil
		}
		if err := handler.Notify(context.Background(), event); err != nil {
			if errors.Is(err, ErrNotifyFinal) {
				log.Printf("Order %s notified partially, not requeueing: %v", event.OrderNumber, err)
				return nil
			}
			return fmt.Errorf("notify order %s: %w", event.OrderNumber, err)
		}
		return nil
	}
}

// InProcessPublisher delivers events to a handler on a new goroutine. It is
// used when no broker is configured.
type InProcessPublisher struct {
	handler OrderEventHandler
}

// NewInProcessPublisher creates a new InProcessPublisher.
func NewInProcessPublisher(handler OrderEventHandler) *InProcessPublisher {
	return &InProcessPublisher{handler: handler}
}

func (p *InProcessPublisher) PublishOrderCreated(ctx context.Context, event OrderEvent) error {
	go func() {
		if err := p.handler.Notify(context.Background(), event); err != nil {
			log.Printf("Warning: notification for order %s failed: %v", event.OrderNumber, err)
		}
	}()
	return nil
}
