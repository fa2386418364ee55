package policial

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"registrobo/controller"
	"registrobo/dto"
	"registrobo/middleware"
	"registrobo/model"
	"registrobo/services"
)

func PolicialController(router *gin.Engine, policiais *services.PolicialService, tokens *services.TokenService) {
	routes := router.Group("/policiais", middleware.AccessTokenMiddleware(tokens))
	{
		routes.POST("", middleware.AdminMiddleware(), func(c *gin.Context) {
			RegisterPolicial(c, policiais)
		})
		routes.GET("/me", controller.WithIdentity(func(c *gin.Context, who model.Identity) {
			ReadMe(c, who, policiais)
		}))
	}
}

func RegisterPolicial(c *gin.Context, policiais *services.PolicialService) {
	var request dto.CreatePolicialRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		controller.RespondBadRequest(c, err)
		return
	}

	p, err := policiais.Register(c.Request.Context(), request)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func ReadMe(c *gin.Context, who model.Identity, policiais *services.PolicialService) {
	p, err := policiais.GetByID(c.Request.Context(), who.PolicialID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
