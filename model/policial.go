package model

import "time"

const (
	RolePolicial = "policial"
	RoleAdmin    = "admin"
)

type Policial struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Nome           string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	Matricula      string    `gorm:"column:matricula;type:varchar(64);uniqueIndex;not null" json:"matricula,omitempty"`
	HashedPassword string    `gorm:"column:hashed_password;type:varchar(255);not null" json:"-"`
	Role           string    `gorm:"column:role;type:varchar(16);default:'policial';not null" json:"role,omitempty"`
	Ativo          bool      `gorm:"column:ativo;not null;default:true" json:"ativo,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Policial) TableName() string {
	return "policiais"
}
