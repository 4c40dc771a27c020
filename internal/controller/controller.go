package controller

import (
	appcontext "github.com/SeakMengs/MailBlast/internal/app_context"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index     *IndexController
	Dataset   *DatasetController
	Broadcast *BroadcastController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:     &IndexController{baseController: bc},
		Dataset:   &DatasetController{baseController: bc},
		Broadcast: &BroadcastController{baseController: bc},
	}
}
