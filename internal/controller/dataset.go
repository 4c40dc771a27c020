package controller

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SeakMengs/MailBlast/internal/repository"
	"github.com/SeakMengs/MailBlast/internal/spreadsheet"
	"github.com/SeakMengs/MailBlast/internal/util"
	"github.com/gin-gonic/gin"
)

type DatasetController struct {
	*baseController
}

type loadSheetRequest struct {
	SheetURL string `json:"sheet_url" binding:"required,strNotEmpty"`
}

func (dc DatasetController) LoadFromSheet(ctx *gin.Context) {
	var body loadSheetRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request body", util.GenerateErrorMessages(err), nil)
		return
	}

	dataset, err := dc.app.SheetLoader.LoadFromURL(ctx, body.SheetURL)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnprocessableEntity, "Failed to load Google Sheet", util.GenerateErrorMessages(err, "sheetUrl"), nil)
		return
	}

	stored := dc.app.Repository.Dataset.Save(body.SheetURL, "sheet", dataset)

	util.ResponseSuccess(ctx, gin.H{
		"dataset": storedDatasetResponse(stored),
	})
}

func (dc DatasetController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "A CSV file is required", util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Only CSV files are supported", util.GenerateErrorMessages(errors.New("unsupported file type"), "file"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to open uploaded file", util.GenerateErrorMessages(err), nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read uploaded file", util.GenerateErrorMessages(err), nil)
		return
	}

	dataset, err := spreadsheet.LoadFromReader(bytes.NewReader(content))
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnprocessableEntity, "Failed to parse CSV file", util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	stored := dc.app.Repository.Dataset.Save(fileHeader.Filename, "upload", dataset)

	if dc.app.Archive != nil {
		objectName := util.AddUniquePrefixToFileName(fileHeader.Filename)
		if _, err := dc.app.Archive.Store(ctx, stored.ID, objectName, content); err != nil {
			// Archiving is best-effort; the dataset is already usable.
			dc.app.Logger.Warnw("failed to archive uploaded dataset", "dataset_id", stored.ID, "error", err)
		}
	}

	util.ResponseSuccess(ctx, gin.H{
		"dataset": storedDatasetResponse(stored),
	})
}

func (dc DatasetController) List(ctx *gin.Context) {
	list := dc.app.Repository.Dataset.List()

	datasets := make([]gin.H, 0, len(list))
	for _, stored := range list {
		datasets = append(datasets, storedDatasetResponse(stored))
	}

	util.ResponseSuccess(ctx, gin.H{
		"datasets": datasets,
	})
}

func (dc DatasetController) GetByID(ctx *gin.Context) {
	stored, ok := dc.getStoredDataset(ctx)
	if !ok {
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"dataset": storedDatasetResponse(stored),
		"columns": stored.Dataset.Columns,
		"rows":    stored.Dataset.Rows,
	})
}

// getStoredDataset resolves the :datasetId path param and writes the error
// response itself when the lookup fails.
func (bc baseController) getStoredDataset(ctx *gin.Context) (*repository.StoredDataset, bool) {
	datasetId := ctx.Params.ByName("datasetId")
	if datasetId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Dataset ID is required", util.GenerateErrorMessages(errors.New("dataset id is required"), "datasetId"), nil)
		return nil, false
	}

	stored, err := bc.app.Repository.Dataset.GetByID(datasetId)
	if err != nil {
		if errors.Is(err, repository.ErrDatasetNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Dataset not found", util.GenerateErrorMessages(err, "datasetId"), nil)
			return nil, false
		}

		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get dataset", util.GenerateErrorMessages(err), nil)
		return nil, false
	}

	return stored, true
}

func storedDatasetResponse(stored *repository.StoredDataset) gin.H {
	return gin.H{
		"id":        stored.ID,
		"name":      stored.Name,
		"source":    stored.Source,
		"row_count": len(stored.Dataset.Rows),
		"columns":   stored.Dataset.Columns,
		"loaded_at": stored.LoadedAt,
	}
}
