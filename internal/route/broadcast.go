package route

import (
	"github.com/SeakMengs/MailBlast/internal/controller"
	"github.com/gin-gonic/gin"
)

func V1_Broadcasts(r *gin.RouterGroup, bc *controller.BroadcastController) {
	v1 := r.Group("/v1/datasets/:datasetId/broadcasts")
	{
		v1.POST("/preview", bc.Preview)
		v1.POST("/send", bc.Send)
	}
}
