package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"contentpipeline/internal/config"
	"contentpipeline/internal/dto"
	"contentpipeline/internal/logger"
	"contentpipeline/internal/model"
	"contentpipeline/internal/services/manifest"
	"contentpipeline/internal/services/metadata"
	"contentpipeline/internal/services/naming"
	"contentpipeline/internal/services/storage"
	"contentpipeline/internal/services/transcode"
	"contentpipeline/internal/services/walker"
)

// Processor runs the whole pipeline: walk, extract, transcode, write the manifest.
type Processor struct {
	config     *config.Config
	walker     *walker.Walker
	extractor  *metadata.Extractor
	transcoder *transcode.Transcoder
	builder    *manifest.Builder
	catalog    *Catalog // nil = bez katalogu
	logger     *logger.Logger

	now func() time.Time
}

// NewProcessor wires the pipeline stages. catalog may be nil.
func NewProcessor(cfg *config.Config, codec transcode.Codec, catalog *Catalog, logger *logger.Logger) *Processor {
	return &Processor{
		config:     cfg,
		walker:     walker.NewWalker(cfg.ContentRoot, cfg.Categories, logger),
		extractor:  metadata.NewExtractor(logger),
		transcoder: transcode.NewTranscoder(codec, transcode.OptionsFromConfig(cfg), logger),
		builder:    manifest.NewBuilder(logger),
		catalog:    catalog,
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes the content tree once. Per-file and per-project problems are
// logged and counted; an error is returned only for fatal conditions
// (output directories, manifest write) or cancellation, in which case the
// existing manifest is left untouched.
func (p *Processor) Run(ctx context.Context) (dto.RunSummary, error) {
	started := p.now()
	summary := dto.RunSummary{
		RunID:        uuid.NewString(),
		StartedAt:    started,
		Forced:       p.config.Force,
		ManifestPath: p.config.ManifestPath(),
	}

	p.logger.Info("🚀 Starting content processing from %s", p.config.ContentRoot)
	if p.config.Force {
		p.logger.Info("Force mode: every image will be re-encoded")
	}

	if err := storage.EnsureDirs(p.config.OutputDir, p.config.DataDir); err != nil {
		return summary, err
	}

	run := &model.Run{ID: summary.RunID, StartedAt: started, Forced: p.config.Force}
	if p.catalog != nil {
		p.catalog.StartRun(run)
	}

	projects, walkErrs := p.walker.Walk()
	summary.ProjectsFound = len(projects)
	summary.WalkErrors = len(walkErrs)

	slugs := naming.NewRegistry("-")
	records := make([]model.ProjectRecord, 0, len(projects))
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("processing interrupted: %w", err)
		}

		record, err := p.processProject(ctx, run.ID, project, slugs, &summary)
		if err != nil {
			return summary, fmt.Errorf("processing interrupted: %w", err)
		}
		records = append(records, record)
	}

	manifestRecords := p.builder.Build(records)
	summary.ProjectsEmitted = len(manifestRecords)
	summary.ProjectsDropped = len(records) - len(manifestRecords)

	if err := p.builder.Write(summary.ManifestPath, manifestRecords); err != nil {
		return summary, err
	}

	summary.Duration = p.now().Sub(started)

	if p.catalog != nil {
		run.Projects = summary.ProjectsEmitted
		run.Dropped = summary.ProjectsDropped
		run.Encoded = summary.ImagesEncoded
		run.Cached = summary.ImagesCached
		run.Failed = summary.ImagesFailed
		p.catalog.FinishRun(run)
	}

	p.logger.Info("✅ Content processing complete: %s", summary)
	return summary, nil
}

func (p *Processor) processProject(ctx context.Context, runID string, project model.SourceProject, slugs *naming.Registry, summary *dto.RunSummary) (model.ProjectRecord, error) {
	slug, renamed := slugs.Claim(naming.Slug(project.RawName))
	if renamed {
		summary.SlugCollisions++
		p.logger.Warning("Project %s collides with an earlier slug, using %s", project.RawName, slug)
	}

	p.logger.Info("📁 Processing project: %s (%s)", project.RawName, project.Category)

	meta := p.extractor.Extract(project.SourcePath).Resolve(naming.Title(project.RawName), summary.StartedAt)

	result, err := p.transcoder.Transcode(ctx, transcode.Job{Slug: slug, Dir: project.SourcePath})
	if err != nil {
		if ctx.Err() != nil {
			return model.ProjectRecord{}, ctx.Err()
		}
		p.logger.Warning("Error reading directory %s: %v", project.SourcePath, err)
		result = transcode.Result{}
	}

	summary.ImagesEncoded += result.Encoded
	summary.ImagesCached += result.Cached
	summary.ImagesFailed += result.Failed

	if p.catalog != nil {
		p.catalog.RecordProject(runID, project, slug, result.Outcomes)
	}

	return model.NewProjectRecord(slug, project.Category, meta, result.Images), nil
}
