package services

import (
	"time"

	"contentpipeline/internal/logger"
	"contentpipeline/internal/model"
	"contentpipeline/internal/repository"
	"contentpipeline/internal/services/exif"
	"contentpipeline/internal/services/transcode"
)

// Catalog records runs and per-image outcomes. Failures are logged and
// never interrupt processing.
type Catalog struct {
	runs   repository.RunRepository
	assets repository.AssetRepository
	logger *logger.Logger
}

// NewCatalog creates a Catalog on top of the given repositories.
func NewCatalog(runs repository.RunRepository, assets repository.AssetRepository, logger *logger.Logger) *Catalog {
	return &Catalog{runs: runs, assets: assets, logger: logger}
}

// StartRun stores the beginning of run.
func (c *Catalog) StartRun(run *model.Run) {
	if err := c.runs.Start(run); err != nil {
		c.logger.Error("Catalog: failed to record run start: %v", err)
	}
}

// FinishRun stores the final counters of run.
func (c *Catalog) FinishRun(run *model.Run) {
	finished := time.Now()
	run.FinishedAt = &finished
	if err := c.runs.Finish(run); err != nil {
		c.logger.Error("Catalog: failed to record run end: %v", err)
	}
}

// RecordProject stores one asset row per transcoding outcome, with EXIF
// capture data for the images that were produced.
func (c *Catalog) RecordProject(runID string, project model.SourceProject, slug string, outcomes []transcode.Outcome) {
	if len(outcomes) == 0 {
		return
	}

	assets := make([]model.Asset, 0, len(outcomes))
	for _, outcome := range outcomes {
		asset := model.Asset{
			RunID:       runID,
			Project:     slug,
			Category:    project.Category,
			SourcePath:  outcome.SourcePath,
			SourceMTime: outcome.SourceMTime,
			Status:      outcome.Status,
			Width:       outcome.Width,
			Height:      outcome.Height,
		}
		if outcome.Err != nil {
			asset.Error = outcome.Err.Error()
		}
		if asset.Status == "" {
			asset.Status = model.AssetFailed
		}
		if asset.Status != model.AssetFailed {
			// Brak EXIF (np. PNG) nie jest błędem
			if info, err := exif.Read(outcome.SourcePath); err == nil {
				asset.TakenAt = info.TakenAt
				asset.CameraModel = info.CameraModel
			}
		}
		assets = append(assets, asset)
	}

	if err := c.assets.InsertBatch(assets); err != nil {
		c.logger.Error("Catalog: failed to record assets of %s: %v", slug, err)
	}
}
