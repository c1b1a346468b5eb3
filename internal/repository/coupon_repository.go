package repository

import (
	"context"
	"errors"

	"loja/internal/domain/model"
)

// ErrDuplicateCodigo はクーポンコードの一意制約違反
var ErrDuplicateCodigo = errors.New("codigo already exists")

type CouponListFilter struct {
	Page  int
	Limit int
	Ativo *bool
}

type CouponStats struct {
	Total     int64
	Ativos    int64
	Expirados int64
}

type CouponRepository interface {
	FindByID(ctx context.Context, id int64) (model.Coupon, error)
	FindByCodigo(ctx context.Context, codigo string) (model.Coupon, error)

	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	SetAtivo(ctx context.Context, id int64, ativo bool) error
	Delete(ctx context.Context, id int64) error

	// uso único消費。ativo=true→falseの条件付き更新で、
	// 更新できなければfalse（すでに消費済み）
	ConsumeSingleUse(ctx context.Context, id int64) (bool, error)

	List(ctx context.Context, f CouponListFilter) ([]model.Coupon, int64, error)
	ListActive(ctx context.Context) ([]model.Coupon, error)
	ListExpired(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error)
	Stats(ctx context.Context) (CouponStats, error)
}
