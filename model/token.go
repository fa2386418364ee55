package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	PolicialID uint   `json:"policialId"`
	Nome       string `json:"nome"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	PolicialID uint `json:"policialId"`
	jwt.RegisteredClaims
}

// RefreshToken guarda apenas o hash do token emitido, indexado pelo jti.
type RefreshToken struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	JTI        string    `gorm:"column:jti;type:varchar(36);uniqueIndex;not null"`
	PolicialID uint      `gorm:"column:policial_id;not null;index"`
	TokenHash  string    `gorm:"column:token_hash;type:varchar(255);not null"`
	ExpiresAt  time.Time `gorm:"column:expires_at;not null;index"`
	Revoked    bool      `gorm:"column:revoked;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Identity is the authenticated officer attached to a request by the JWT middleware.
type Identity struct {
	PolicialID uint
	Nome       string
	Role       string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
