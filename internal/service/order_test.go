package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/shopfront-ui-api/internal/domain/model"
	"github.com/target/shopfront-ui-api/internal/mocks"
)

func TestOrderService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mocks.NewMockOrderReader(ctrl)
	orders.EXPECT().ListOrders(gomock.Any(), "cust-1", 5).Return([]model.Order{
		{ID: "ord-1", Number: "W-1001", Status: "shipped", Total: "129.99", PlacedAt: time.Now()},
	}, nil)

	svc := NewOrderService(orders)

	result, err := svc.List(context.Background(), "cust-1", 5)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "W-1001", result[0].Number)
}

func TestOrderService_List_RequiresCustomerID(t *testing.T) {
	svc := NewOrderService(nil)

	_, err := svc.List(context.Background(), "", 5)
	assert.Error(t, err)
}

func TestOrderService_List_LimitHandling(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mocks.NewMockOrderReader(ctrl)
	orders.EXPECT().ListOrders(gomock.Any(), "cust-1", defaultOrderListLimit).Return(nil, nil)
	orders.EXPECT().ListOrders(gomock.Any(), "cust-1", maxOrderListLimit).Return(nil, nil)

	svc := NewOrderService(orders)
	ctx := context.Background()

	result, err := svc.List(ctx, "cust-1", 0)
	require.NoError(t, err)
	assert.NotNil(t, result)

	_, err = svc.List(ctx, "cust-1", 10_000)
	require.NoError(t, err)
}

func TestOrderService_List_BackendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orders := mocks.NewMockOrderReader(ctrl)
	orders.EXPECT().ListOrders(gomock.Any(), "cust-1", 5).Return(nil, errors.New("backend down"))

	svc := NewOrderService(orders)

	_, err := svc.List(context.Background(), "cust-1", 5)
	assert.Error(t, err)
}
