package repository

import (
	"context"

	"loja/internal/domain/model"
)

type CartItemRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error)
	FindByID(ctx context.Context, id int64) (model.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	Create(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, id int64, qty int64) error

	DeleteByID(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	// 注文確定時に該当商品の行だけ消す
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error

	TotalQuantityByUser(ctx context.Context, userID int64) (int64, error)
}
