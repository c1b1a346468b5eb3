package model

import "time"

type Product struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"codProduto"`
	Nome      string    `gorm:"type:varchar(255);not null" json:"nome"`
	Descricao string    `gorm:"type:text" json:"descricao"`
	Preco     float64   `gorm:"not null" json:"preco"`
	Promocao  *float64  `json:"promocao"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "produtos" }
