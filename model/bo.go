package model

import (
	"time"
)

// BO (Boletim de Ocorrência) registrado por um policial.
type BO struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Comunicante string    `gorm:"column:comunicante;type:varchar(255);not null" json:"comunicante"`
	Descricao   string    `gorm:"column:descricao;type:text;not null" json:"descricao"`
	Local       string    `gorm:"column:local;type:varchar(255);not null" json:"local"`
	Data        time.Time `gorm:"column:data;not null;index" json:"data"`
	PolicialID  uint      `gorm:"column:policial_id;not null;index" json:"policialId"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`

	// Relations
	Policial *Policial `gorm:"foreignKey:PolicialID;references:ID;constraint:OnUpdate:CASCADE" json:"policial,omitempty"`
}

func (BO) TableName() string {
	return "bo"
}
