package repository

import (
	"context"
	"time"

	"loja/internal/domain/model"
)

type OrderStatusCount struct {
	Status     string `json:"status"`
	Quantidade int64  `json:"quantidade"`
}

type OrderStats struct {
	TotalPedidos int64              `json:"totalPedidos"`
	TotalVendas  float64            `json:"totalVendas"`
	PedidosMes   int64              `json:"pedidosMes"`
	VendasMes    float64            `json:"vendasMes"`
	PorStatus    []OrderStatusCount `json:"pedidosPorStatus"`
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	// 行ロック付き取得。キャンセル/ステータス変更の二重実行を防ぐ
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)

	Create(ctx context.Context, order model.Order) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateEndereco(ctx context.Context, orderID int64, endereco string) error
	UpdateCouponAndTotal(ctx context.Context, orderID int64, couponID int64, valorTotal float64) error

	ListAll(ctx context.Context) ([]model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ListByPeriod(ctx context.Context, from time.Time, to time.Time) ([]model.Order, error)

	Stats(ctx context.Context, monthStart time.Time, monthEnd time.Time) (OrderStats, error)
}
