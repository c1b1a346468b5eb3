package model

import "time"

// 在庫台帳の1行。現在庫は常にdeltaの合計で求める（quantidade列の直接更新はしない）
type StockMovement struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"codEstoque"`
	ProductID        int64     `gorm:"column:id_produto;not null;index" json:"idProduto"`
	Quantidade       int64     `gorm:"not null" json:"quantidade"`
	Movimentacao     string    `gorm:"type:varchar(255);not null" json:"movimentacao"`
	DataMovimentacao time.Time `gorm:"not null;autoCreateTime" json:"dataMovimentacao"`
}

func (StockMovement) TableName() string { return "estoques" }
