package model

import "time"

type Coupon struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"codCupom"`
	Codigo             string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"codigo"`
	DescontoPercentual float64   `gorm:"not null" json:"descontoPercentual"`
	DataValidade       time.Time `gorm:"not null" json:"dataValidade"`
	UsoUnico           bool      `gorm:"not null;default:true" json:"usoUnico"`
	Ativo              bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt          time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Coupon) TableName() string { return "cupons" }
