package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"
	"laptopshop/internal/services"
	"laptopshop/internal/warranty"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWarrantyService_LookupByPhone(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	service := services.NewWarrantyService(orders, products)

	delivered := time.Now().AddDate(0, -2, 0)
	deliveredOrder := models.Order{
		OrderNumber: "DH240101-AAAAAA",
		Status:      models.OrderStatusDelivered,
		DeliveredAt: &delivered,
		Items: []models.OrderItem{
			{ProductID: "p-24", ProductName: "ThinkPad", Quantity: 1},
			{ProductID: "p-gone", ProductName: "Old mouse", Quantity: 1},
		},
	}
	pendingOrder := models.Order{
		OrderNumber: "DH240301-BBBBBB",
		Status:      models.OrderStatusShipped,
		Items:       []models.OrderItem{{ProductID: "p-24", ProductName: "ThinkPad", Quantity: 1}},
	}
	p24 := models.Product{WarrantyMonths: 24}
	p24.ID = "p-24"

	orders.On("ListByPhone", "0901234567").Return([]models.Order{deliveredOrder, pendingOrder}, nil).Once()
	products.On("GetByIDs", mock.Anything).Return([]models.Product{p24}, nil).Once()

	result, err := service.Lookup(context.Background(), "+84 901 234 567")
	require.NoError(t, err)
	require.Len(t, result, 2)

	first := result[0]
	require.Len(t, first.Items, 2)
	assert.Equal(t, warranty.StatusActive, first.Items[0].Status)
	assert.Equal(t, 24, first.Items[0].WarrantyMonths)
	require.NotNil(t, first.Items[0].ExpiresAt)
	assert.True(t, first.Items[0].ExpiresAt.Equal(delivered.AddDate(0, 24, 0)))
	assert.Equal(t, models.DefaultWarrantyMonths, first.Items[1].WarrantyMonths)

	for _, item := range result[1].Items {
		assert.Equal(t, warranty.StatusPendingDelivery, item.Status)
	}
	orders.AssertExpectations(t)
}

func TestWarrantyService_LookupByOrderNumber(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	service := services.NewWarrantyService(orders, products)

	delivered := time.Now().AddDate(-2, 0, 0)
	order := &models.Order{
		OrderNumber: "DH220101-CCCCCC",
		Status:      models.OrderStatusDelivered,
		DeliveredAt: &delivered,
		Items:       []models.OrderItem{{ProductID: "p-1", Quantity: 1}},
	}
	orders.On("GetByNumber", "DH220101-CCCCCC").Return(order, nil).Once()
	products.On("GetByIDs", []string{"p-1"}).Return([]models.Product{}, nil).Once()

	result, err := service.Lookup(context.Background(), "dh220101-cccccc")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, warranty.StatusExpired, result[0].Items[0].Status)
	assert.Zero(t, result[0].Items[0].RemainingDays)
}

func TestWarrantyService_LookupNotFound(t *testing.T) {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	service := services.NewWarrantyService(orders, products)

	orders.On("GetByNumber", "UNKNOWN").Return(nil, fmt.Errorf("get: %w", repositories.ErrNotFound)).Once()
	orders.On("GetByID", "unknown").Return(nil, fmt.Errorf("get: %w", repositories.ErrNotFound)).Once()

	_, err := service.Lookup(context.Background(), "unknown")
	assert.ErrorIs(t, err, services.ErrNotFound)

	orders.On("ListByPhone", "0987654321").Return([]models.Order{}, nil).Once()
	_, err = service.Lookup(context.Background(), "0987654321")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = service.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, services.ErrValidation)
}
