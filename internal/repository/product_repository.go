package repository

import (
	"context"
	"errors"

	"loja/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)

	// 行ロック付き取得。注文確定や在庫出庫の直前に呼び、
	// 同一商品に対する残高チェック→台帳書き込みを直列化する
	FindByIDForUpdate(ctx context.Context, id int64) (model.Product, error)

	ListActive(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	SetAtivo(ctx context.Context, id int64, ativo bool) error
}
