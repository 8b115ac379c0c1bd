package service

import (
	"context"
	"errors"

	"github.com/target/shopfront-ui-api/internal/domain/model"
	"github.com/target/shopfront-ui-api/internal/ports"
)

const (
	defaultOrderListLimit = 20
	maxOrderListLimit     = 100
)

// OrderService reads order history for the active customer from the business
// data backend.
type OrderService struct {
	orders ports.OrderReader
}

// NewOrderService constructs a new OrderService.
func NewOrderService(orders ports.OrderReader) *OrderService {
	return &OrderService{orders: orders}
}

// List returns the most recent orders for the customer.
func (s *OrderService) List(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	if customerID == "" {
		return nil, errors.New("customer id is required")
	}
	if limit <= 0 {
		limit = defaultOrderListLimit
	}
	if limit > maxOrderListLimit {
		limit = maxOrderListLimit
	}

	result, err := s.orders.ListOrders(ctx, customerID, limit)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []model.Order{}
	}
	return result, nil
}
