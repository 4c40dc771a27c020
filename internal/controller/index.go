package controller

import (
	constant "github.com/SeakMengs/MailBlast/internal/constant"
	"github.com/SeakMengs/MailBlast/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"name": constant.APP_NAME,
		"env":  ic.app.Config.ENV,
	})
}
