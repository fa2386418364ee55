package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"registrobo/controller"
	"registrobo/dto"
	"registrobo/middleware"
	"registrobo/model"
	"registrobo/services"
)

func AuthController(router *gin.Engine, policiais *services.PolicialService, tokens *services.TokenService) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, policiais, tokens)
		})
		routes.POST("/signout", middleware.AccessTokenMiddleware(tokens), controller.WithIdentity(func(c *gin.Context, who model.Identity) {
			Signout(c, who, tokens)
		}))
		routes.POST("/newaccesstoken", middleware.RefreshTokenMiddleware(tokens), func(c *gin.Context) {
			NewAccessToken(c, tokens)
		})
	}
}

func Signin(c *gin.Context, policiais *services.PolicialService, tokens *services.TokenService) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		controller.RespondBadRequest(c, err)
		return
	}

	p, err := policiais.Authenticate(c.Request.Context(), request.Matricula, request.Senha)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	accessToken, err := tokens.CreateAccessToken(p)
	if err != nil {
		controller.RespondError(c, model.NewAppError(model.KindInternal, services.MsgTokenFailed, err))
		return
	}
	refreshToken, err := tokens.CreateRefreshToken(c.Request.Context(), p)
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	middleware.LoggerFromContext(c).Info("signin", zap.Uint("policial_id", p.ID))
	c.JSON(http.StatusOK, dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken})
}

func NewAccessToken(c *gin.Context, tokens *services.TokenService) {
	refreshToken, claims, ok := middleware.RefreshTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.MsgInvalidToken})
		return
	}

	accessToken, err := tokens.RenewAccessToken(c.Request.Context(), refreshToken, claims)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Signout revokes every refresh token of the officer. Access tokens already
// issued stay valid until they expire.
func Signout(c *gin.Context, who model.Identity, tokens *services.TokenService) {
	if err := tokens.RevokeAll(c.Request.Context(), who.PolicialID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sessão encerrada"})
}
