package model

import "time"

type OrderStatus string

const (
	OrderStatusPendente   OrderStatus = "Pendente"
	OrderStatusConfirmado OrderStatus = "Confirmado"
	OrderStatusPreparando OrderStatus = "Preparando"
	OrderStatusEnviado    OrderStatus = "Enviado"
	OrderStatusEntregue   OrderStatus = "Entregue"
	OrderStatusCancelado  OrderStatus = "Cancelado"
)

// ValidOrderStatus は固定enumに含まれるか
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPendente, OrderStatusConfirmado, OrderStatusPreparando,
		OrderStatusEnviado, OrderStatusEntregue, OrderStatusCancelado:
		return true
	}
	return false
}

// IsTerminal はこれ以上遷移できない状態か
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusEntregue || s == OrderStatusCancelado
}

type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"codPedido"`
	UserID          int64       `gorm:"column:id_usuario;not null;index" json:"idUsuario"`
	CouponID        *int64      `gorm:"column:id_cupom" json:"idCupom"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index;default:'Pendente'" json:"status"`
	ValorTotal      float64     `gorm:"not null" json:"valorTotal"`
	EnderecoEntrega string      `gorm:"type:varchar(500);not null" json:"enderecoEntrega"`
	DataPedido      time.Time   `gorm:"not null;autoCreateTime" json:"dataPedido"`
}

func (Order) TableName() string { return "pedidos" }
