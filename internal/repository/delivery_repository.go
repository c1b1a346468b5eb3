package repository

import (
	"context"
	"errors"

	"loja/internal/domain/model"
)

// ErrDuplicateDelivery は同一注文への2件目の配送
var ErrDuplicateDelivery = errors.New("delivery already exists for order")

type DeliveryListFilter struct {
	Page   int
	Limit  int
	Status string
}

type DeliveryRepository interface {
	FindByID(ctx context.Context, id int64) (model.Delivery, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Delivery, error)
	FindByTracking(ctx context.Context, codigo string) (model.Delivery, error)

	Create(ctx context.Context, d model.Delivery) (model.Delivery, error)
	Update(ctx context.Context, d model.Delivery) error

	List(ctx context.Context, f DeliveryListFilter) ([]model.Delivery, int64, error)
}
