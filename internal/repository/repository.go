package repository

import (
	"go.uber.org/zap"
)

type baseRepository struct {
	logger *zap.SugaredLogger
}

type Repository struct {
	Dataset *DatasetRepository
}

func newBaseRepository(logger *zap.SugaredLogger) *baseRepository {
	return &baseRepository{logger: logger}
}

// NewRepository wires the in-memory stores. Nothing here survives a process
// restart; broadcast runs are ephemeral and datasets are reloaded from their
// source when needed.
func NewRepository(logger *zap.SugaredLogger) *Repository {
	br := newBaseRepository(logger)

	return &Repository{
		Dataset: NewDatasetRepository(br),
	}
}
