package repository

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SeakMengs/MailBlast/pkg/broadcast"
	"github.com/google/uuid"
)

var ErrDatasetNotFound = errors.New("dataset not found")

// StoredDataset is a loaded dataset kept in memory so later requests can
// preview and broadcast against it.
type StoredDataset struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Source   string             `json:"source"`
	Dataset  *broadcast.Dataset `json:"-"`
	LoadedAt time.Time          `json:"loaded_at"`
}

type DatasetRepository struct {
	*baseRepository

	mu       sync.RWMutex
	datasets map[string]*StoredDataset
}

func NewDatasetRepository(br *baseRepository) *DatasetRepository {
	return &DatasetRepository{
		baseRepository: br,
		datasets:       make(map[string]*StoredDataset),
	}
}

// Save registers a dataset under a fresh id and returns the stored record.
func (dr *DatasetRepository) Save(name, source string, dataset *broadcast.Dataset) *StoredDataset {
	stored := &StoredDataset{
		ID:       uuid.NewString(),
		Name:     name,
		Source:   source,
		Dataset:  dataset,
		LoadedAt: time.Now(),
	}

	dr.mu.Lock()
	dr.datasets[stored.ID] = stored
	dr.mu.Unlock()

	dr.logger.Infow("dataset stored", "id", stored.ID, "name", name, "rows", len(dataset.Rows))

	return stored
}

// GetByID returns the stored dataset or ErrDatasetNotFound.
func (dr *DatasetRepository) GetByID(id string) (*StoredDataset, error) {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	stored, ok := dr.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	return stored, nil
}

// List returns all stored datasets, newest first.
func (dr *DatasetRepository) List() []*StoredDataset {
	dr.mu.RLock()
	defer dr.mu.RUnlock()

	list := make([]*StoredDataset, 0, len(dr.datasets))
	for _, stored := range dr.datasets {
		list = append(list, stored)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].LoadedAt.After(list[j].LoadedAt)
	})

	return list
}
