package model

import "time"

// (user, product)で一意。同じ商品の追加は数量加算
type CartItem struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"codCarrinho"`
	UserID         int64     `gorm:"column:id_usuario;not null;uniqueIndex:idx_carrinho_usuario_produto" json:"idUsuario"`
	ProductID      int64     `gorm:"column:id_produto;not null;uniqueIndex:idx_carrinho_usuario_produto" json:"idProduto"`
	Quantidade     int64     `gorm:"not null;default:1" json:"quantidade"`
	DataAdicionado time.Time `gorm:"not null;autoCreateTime" json:"dataAdicionado"`
}

func (CartItem) TableName() string { return "carrinhos" }
