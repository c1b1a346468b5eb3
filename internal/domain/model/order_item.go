package model

import "time"

// 注文明細。作成時のスナップショットで、以降は不変。
// キャンセル時の在庫戻しはここから数量を復元する
type OrderItem struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"codItem"`
	OrderID       int64     `gorm:"column:id_pedido;not null;index" json:"idPedido"`
	ProductID     int64     `gorm:"column:id_produto;not null;index" json:"idProduto"`
	NomeProduto   string    `gorm:"type:varchar(255);not null" json:"nomeProduto"`
	PrecoUnitario float64   `gorm:"not null" json:"precoUnitario"`
	Quantidade    int64     `gorm:"not null" json:"quantidade"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string { return "pedido_itens" }
