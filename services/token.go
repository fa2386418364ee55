package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"registrobo/model"
)

const (
	tokenIssuer     = "registrobo"
	accessAudience  = "registrobo:access"
	refreshAudience = "registrobo:refresh"

	MsgInvalidToken   = "Token inválido ou expirado"
	MsgRevokedToken   = "Token revogado"
	MsgTokenFailed    = "Erro ao gerar token"
	MsgTokenStoreFail = "Erro ao consultar token"
)

type TokenService struct {
	db            *gorm.DB
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(db *gorm.DB, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		db:            db,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *TokenService) CreateAccessToken(p *model.Policial) (string, error) {
	now := s.now()
	claims := &model.AccessClaims{
		PolicialID: p.ID,
		Nome:       p.Nome,
		Role:       p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{accessAudience},
			Subject:   p.Matricula,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.accessSecret)
}

// CreateRefreshToken signs a refresh token and stores its hash under a fresh jti.
func (s *TokenService) CreateRefreshToken(ctx context.Context, p *model.Policial) (string, error) {
	now := s.now()
	expiresAt := now.Add(s.refreshTTL)
	jti := uuid.NewString()
	claims := &model.RefreshClaims{
		PolicialID: p.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{refreshAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return "", err
	}

	hashed, err := HashRefreshToken(signed)
	if err != nil {
		return "", err
	}
	record := model.RefreshToken{
		JTI:        jti,
		PolicialID: p.ID,
		TokenHash:  hashed,
		ExpiresAt:  expiresAt.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return signed, nil
}

// HashRefreshToken reduces the token with SHA-256 first since bcrypt only reads
// 72 bytes of input.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}

func hmacKey(secret []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}
}

// parserOptions pins the audience so one kind of token is never accepted as
// the other, even when both secrets are equal.
func (s *TokenService) parserOptions(audience string) []jwt.ParserOption {
	return []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(s.now),
	}
}

func (s *TokenService) ParseAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(s.accessSecret), s.parserOptions(accessAudience)...)
	if err != nil || !token.Valid {
		return nil, model.NewAppError(model.KindUnauthorized, MsgInvalidToken, err)
	}
	return claims, nil
}

func (s *TokenService) ParseRefreshToken(tokenString string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, hmacKey(s.refreshSecret), s.parserOptions(refreshAudience)...)
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, model.NewAppError(model.KindUnauthorized, MsgInvalidToken, err)
	}
	return claims, nil
}

// RenewAccessToken validates a refresh token against the store and issues a new
// access token for its officer.
func (s *TokenService) RenewAccessToken(ctx context.Context, refreshToken string, claims *model.RefreshClaims) (string, error) {
	var record model.RefreshToken
	err := s.db.WithContext(ctx).Where("jti = ?", claims.ID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", model.UnauthorizedError(MsgInvalidToken)
		}
		return "", model.PersistenceError(MsgTokenStoreFail, err)
	}
	if record.Revoked {
		return "", model.UnauthorizedError(MsgRevokedToken)
	}
	if record.ExpiresAt.Before(s.now()) {
		return "", model.UnauthorizedError(MsgInvalidToken)
	}
	if record.PolicialID != claims.PolicialID {
		return "", model.UnauthorizedError(MsgInvalidToken)
	}
	hash := sha256.Sum256([]byte(refreshToken))
	if err := bcrypt.CompareHashAndPassword([]byte(record.TokenHash), hash[:]); err != nil {
		return "", model.UnauthorizedError(MsgInvalidToken)
	}

	var p model.Policial
	if err := s.db.WithContext(ctx).First(&p, record.PolicialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", model.NotFoundError(MsgPolicialNotFound)
		}
		return "", model.PersistenceError(MsgPolicialFailed, err)
	}
	if !p.Ativo {
		return "", model.ForbiddenError(MsgPolicialInactive)
	}

	access, err := s.CreateAccessToken(&p)
	if err != nil {
		return "", model.NewAppError(model.KindInternal, MsgTokenFailed, err)
	}
	return access, nil
}

// RevokeAll marks every refresh token of the officer as revoked.
func (s *TokenService) RevokeAll(ctx context.Context, policialID uint) error {
	err := s.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("policial_id = ? AND revoked = ?", policialID, false).
		Update("revoked", true).Error
	if err != nil {
		return model.PersistenceError(MsgTokenStoreFail, err)
	}
	return nil
}

// PurgeExpired deletes refresh tokens that are expired or revoked.
func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", s.now().UTC(), true).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
