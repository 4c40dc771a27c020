package route

import (
	"github.com/SeakMengs/MailBlast/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_Datasets(r *gin.RouterGroup, dc *controller.DatasetController) {
	v1 := r.Group("/v1/datasets")
	{
		v1.POST("/sheet", dc.LoadFromSheet)
		v1.POST("/upload", dc.Upload)
		v1.GET("", dc.List)
		v1.GET("/:datasetId", dc.GetByID)
	}
}
