package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/SeakMengs/MailBlast/internal/util"
	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"github.com/gin-gonic/gin"
)

type BroadcastController struct {
	*baseController
}

type broadcastRequest struct {
	SubjectTemplate  string   `json:"subject_template" binding:"required,strNotEmpty"`
	BodyTemplate     string   `json:"body_template" binding:"required,strNotEmpty"`
	EmailColumn      string   `json:"email_column" binding:"required,strNotEmpty"`
	AttachmentColumn string   `json:"attachment_column"`
	CC               string   `json:"cc"`
	Recipients       []string `json:"recipients"`
	AllRecipients    bool     `json:"all_recipients"`
	SenderEmail      string   `json:"sender_email"`
	SenderPassword   string   `json:"sender_password"`
}

func (bc BroadcastController) Preview(ctx *gin.Context) {
	bc.run(ctx, broadcast.ModePreview)
}

func (bc BroadcastController) Send(ctx *gin.Context) {
	bc.run(ctx, broadcast.ModeSend)
}

func (bc BroadcastController) run(ctx *gin.Context, mode broadcast.Mode) {
	var body broadcastRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request body", util.GenerateErrorMessages(err), nil)
		return
	}

	stored, ok := bc.getStoredDataset(ctx)
	if !ok {
		return
	}

	dataset := stored.Dataset
	if !dataset.HasColumn(body.EmailColumn) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Email column not found in dataset", util.GenerateErrorMessages(errors.New("column does not exist in the dataset"), "emailColumn"), nil)
		return
	}
	if body.AttachmentColumn != "" && !dataset.HasColumn(body.AttachmentColumn) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Attachment column not found in dataset", util.GenerateErrorMessages(errors.New("column does not exist in the dataset"), "attachmentColumn"), nil)
		return
	}

	recipients := body.Recipients
	if body.AllRecipients {
		recipients = dataset.Recipients(body.EmailColumn)
	}

	job := broadcast.Job{
		SubjectTemplate:  body.SubjectTemplate,
		BodyTemplate:     body.BodyTemplate,
		EmailColumn:      body.EmailColumn,
		AttachmentColumn: body.AttachmentColumn,
		Recipients:       recipients,
		CC:               broadcast.SplitCC(body.CC),
		Sender: broadcast.Credentials{
			Email:  body.SenderEmail,
			Secret: body.SenderPassword,
		},
	}

	result, err := bc.app.Broadcaster.Run(ctx.Request.Context(), dataset, job, mode)
	if err != nil {
		bc.respondRunError(ctx, result, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"run_id":   result.ID,
		"summary":  result.Summary(),
		"outcomes": result.Outcomes,
	})
}

func (bc BroadcastController) respondRunError(ctx *gin.Context, result *broadcast.RunResult, err error) {
	var unknown *broadcast.UnknownPlaceholdersError

	switch {
	case errors.Is(err, broadcast.ErrNoRecipients):
		util.ResponseFailed(ctx, http.StatusBadRequest, "No recipients selected", util.GenerateErrorMessages(err, "recipients"), nil)
	case errors.Is(err, broadcast.ErrMissingCredentials):
		util.ResponseFailed(ctx, http.StatusBadRequest, "Sender credentials are required to send", util.GenerateErrorMessages(err, "senderEmail"), nil)
	case errors.As(err, &unknown):
		util.ResponseFailed(ctx, http.StatusBadRequest, "Template references columns missing from the dataset", util.GenerateErrorMessages(err, "bodyTemplate"), gin.H{
			"unknown_placeholders": unknown.Names,
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The run was cut short. Report what completed before the cut.
		var data gin.H
		if result != nil {
			data = gin.H{
				"run_id":   result.ID,
				"summary":  result.Summary(),
				"outcomes": result.Outcomes,
			}
		}
		util.ResponseFailed(ctx, http.StatusRequestTimeout, "Broadcast interrupted", util.GenerateErrorMessages(err), data)
	default:
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Broadcast failed", util.GenerateErrorMessages(err), nil)
	}
}
