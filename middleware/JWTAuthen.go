package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"registrobo/model"
	"registrobo/services"
)

const (
	identityKey      = "identity"
	refreshTokenKey  = "refreshToken"
	refreshClaimsKey = "refreshClaims"
)

func bearerToken(c *gin.Context) (string, bool) {
	header := c.Request.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AccessTokenMiddleware validates the access token and attaches the officer
// identity to the request.
func AccessTokenMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		claims, err := tokens.ParseAccessToken(tokenString)
		if err != nil || claims.PolicialID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.MsgInvalidToken})
			return
		}

		c.Set(identityKey, model.Identity{
			PolicialID: claims.PolicialID,
			Nome:       claims.Nome,
			Role:       claims.Role,
		})
		c.Next()
	}
}

// IdentityFromContext returns the identity set by AccessTokenMiddleware.
func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Identity not found"})
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// RefreshTokenMiddleware validates the signature of the refresh token. Whether it
// is still active in the store is decided by the handler.
func RefreshTokenMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is missing"})
			return
		}

		claims, err := tokens.ParseRefreshToken(refreshToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": services.MsgInvalidToken})
			return
		}

		c.Set(refreshTokenKey, refreshToken)
		c.Set(refreshClaimsKey, claims)
		c.Next()
	}
}

func RefreshTokenFromContext(c *gin.Context) (string, *model.RefreshClaims, bool) {
	token := c.GetString(refreshTokenKey)
	v, exists := c.Get(refreshClaimsKey)
	if !exists || token == "" {
		return "", nil, false
	}
	claims, ok := v.(*model.RefreshClaims)
	return token, claims, ok
}
