package model

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"codUsuario"`
	Nome      string    `gorm:"type:varchar(255);not null" json:"nome"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Senha     string    `gorm:"column:senha;not null" json:"-"`
	Telefone  string    `gorm:"type:varchar(30)" json:"telefone"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }
