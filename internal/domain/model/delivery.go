package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusEmTransito      DeliveryStatus = "Em trânsito"
	DeliveryStatusSaiuParaEntrega DeliveryStatus = "Saiu para entrega"
	DeliveryStatusEntregue        DeliveryStatus = "Entregue"
	DeliveryStatusAtrasado        DeliveryStatus = "Atrasado"
	DeliveryStatusDevolvido       DeliveryStatus = "Devolvido"
)

func ValidDeliveryStatus(s string) bool {
	switch DeliveryStatus(s) {
	case DeliveryStatusEmTransito, DeliveryStatusSaiuParaEntrega,
		DeliveryStatusEntregue, DeliveryStatusAtrasado, DeliveryStatusDevolvido:
		return true
	}
	return false
}

// 注文1件につき1件（id_pedidoにunique）
type Delivery struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"codEntrega"`
	OrderID            int64          `gorm:"column:id_pedido;not null;uniqueIndex" json:"idPedido"`
	Transportadora     string         `gorm:"type:varchar(255);not null" json:"transportadora"`
	CodigoRastreamento string         `gorm:"type:varchar(100);not null" json:"codigoRastreamento"`
	StatusEntrega      DeliveryStatus `gorm:"type:varchar(30);not null;default:'Em trânsito'" json:"statusEntrega"`
	DataEnvio          time.Time      `gorm:"not null" json:"dataEnvio"`
	DataEntrega        *time.Time     `json:"dataEntrega"`
}

func (Delivery) TableName() string { return "entregas" }
