package bo

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"registrobo/controller"
	"registrobo/dto"
	"registrobo/middleware"
	"registrobo/model"
	"registrobo/pdfexport"
	"registrobo/services"
)

const MsgInvalidID = "ID inválido"

func BOController(router *gin.Engine, boService services.BOService, tokens *services.TokenService, exporter *pdfexport.Exporter) {
	routes := router.Group("/bo", middleware.AccessTokenMiddleware(tokens))
	{
		routes.POST("", controller.WithIdentity(func(c *gin.Context, who model.Identity) {
			CreateBO(c, who, boService)
		}))
		routes.GET("", func(c *gin.Context) {
			ListBO(c, boService)
		})
		routes.GET("/pdf", func(c *gin.Context) {
			ExportBOList(c, boService, exporter)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetBO(c, boService)
		})
		routes.GET("/:id/pdf", func(c *gin.Context) {
			ExportBO(c, boService, exporter)
		})
	}
}

// CreateBO registra o BO em nome do policial autenticado. Qualquer policialId
// enviado no corpo é ignorado.
func CreateBO(c *gin.Context, who model.Identity, boService services.BOService) {
	var request dto.CreateBORequest
	if err := c.ShouldBindJSON(&request); err != nil {
		controller.RespondBadRequest(c, err)
		return
	}

	bo, err := boService.Create(c.Request.Context(), who.PolicialID, request)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bo)
}

func ListBO(c *gin.Context, boService services.BOService) {
	bos, err := boService.List(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bos)
}

func boID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidID})
		return 0, false
	}
	return uint(id), true
}

func GetBO(c *gin.Context, boService services.BOService) {
	id, ok := boID(c)
	if !ok {
		return
	}
	bo, err := boService.Get(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bo)
}

func ExportBO(c *gin.Context, boService services.BOService, exporter *pdfexport.Exporter) {
	id, ok := boID(c)
	if !ok {
		return
	}
	bo, err := boService.Get(c.Request.Context(), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	exporter.Download(c, pdfexport.BODocument(*bo), fmt.Sprintf("bo-%d.pdf", bo.ID))
}

func ExportBOList(c *gin.Context, boService services.BOService, exporter *pdfexport.Exporter) {
	bos, err := boService.List(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	exporter.Download(c, pdfexport.BOListDocument(bos, time.Now()), pdfexport.DefaultFilename)
}
