package repository

import (
	"contentpipeline/internal/dto"
	"contentpipeline/internal/model"
)

// RunRepository defines the interface for pipeline run records.
type RunRepository interface {
	// Create operations
	Start(run *model.Run) error

	// Update operations
	Finish(run *model.Run) error

	// Read operations
	GetByID(id string) (*model.Run, error)
	Latest() (*model.Run, error)
	List(limit int) ([]model.Run, error)
}

// AssetRepository defines the interface for per-image processing records.
type AssetRepository interface {
	// Create operations
	Insert(asset *model.Asset) (int64, error)
	InsertBatch(assets []model.Asset) error

	// Read operations
	GetByRun(filter *dto.AssetFilter) ([]model.Asset, error)
	GetFailures(runID string) ([]model.Asset, error)
	CountByStatus(runID string) (map[model.AssetStatus]int, error)
}
