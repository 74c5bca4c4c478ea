package app

import (
	"context"
	"fmt"
	"path/filepath"

	"contentpipeline/internal/config"
	"contentpipeline/internal/dto"
	"contentpipeline/internal/logger"
	"contentpipeline/internal/repository/sqlite"
	"contentpipeline/internal/services"
	"contentpipeline/internal/services/imaging"
	"contentpipeline/internal/services/storage"
)

type App struct {
	config    *config.Config
	logger    *logger.Logger
	db        *sqlite.DB
	processor *services.Processor
}

// NewApp wires the logger, the OpenCV codec, the optional catalog and the processor.
func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &App{config: cfg, logger: log}

	var catalog *services.Catalog
	if cfg.CatalogPath != "" {
		db, err := openCatalog(cfg.CatalogPath)
		if err != nil {
			// Katalog jest opcjonalny, manifest powstaje i bez niego
			log.Warning("Catalog disabled: %v", err)
		} else {
			a.db = db
			catalog = services.NewCatalog(sqlite.NewRunRepository(db), sqlite.NewAssetRepository(db), log)
			log.Info("Recording runs in catalog %s", cfg.CatalogPath)
		}
	}

	a.processor = services.NewProcessor(cfg, imaging.NewOpenCVCodec(), catalog, log)
	return a, nil
}

func openCatalog(path string) (*sqlite.DB, error) {
	if err := storage.EnsureDirs(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return sqlite.New(path)
}

// Run executes one pipeline pass.
func (a *App) Run(ctx context.Context) (dto.RunSummary, error) {
	fmt.Printf("🏗️  Content pipeline\n")
	fmt.Printf("📂 Content: %s\n", a.config.ContentRoot)
	fmt.Printf("🖼️  Output: %s\n", a.config.OutputDir)
	fmt.Printf("📝 Manifest: %s\n", a.config.ManifestPath())

	return a.processor.Run(ctx)
}

// Logger returns the application logger.
func (a *App) Logger() *logger.Logger {
	return a.logger
}

// Close releases the catalog and log files.
func (a *App) Close() error {
	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = err
		}
	}
	if err := a.logger.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
