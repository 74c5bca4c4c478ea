package transcode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"contentpipeline/internal/config"
	"contentpipeline/internal/logger"
	"contentpipeline/internal/model"
	"contentpipeline/internal/services/naming"
	"contentpipeline/internal/services/storage"
	"contentpipeline/internal/services/workerpool"
)

// ErrDeadline is returned when a single source file exceeds the per-file time limit.
var ErrDeadline = errors.New("file processing deadline exceeded")

// SourceExtensions lists the source image extensions (lowercase) that are transcoded.
var SourceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// Options controls output locations, geometry and scheduling.
type Options struct {
	OutputDir   string
	URLPrefix   string
	MaxSize     image.Point
	ThumbSize   image.Point
	Workers     int
	FileTimeout time.Duration
	Force       bool
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:   cfg.OutputDir,
		URLPrefix:   cfg.URLPrefix,
		MaxSize:     image.Pt(cfg.MaxWidth, cfg.MaxHeight),
		ThumbSize:   image.Pt(cfg.ThumbWidth, cfg.ThumbHeight),
		Workers:     cfg.Workers,
		FileTimeout: cfg.FileTimeout,
		Force:       cfg.Force,
	}
}

// Job identifies the project whose images are transcoded.
type Job struct {
	Slug string
	Dir  string
}

// Outcome records what happened to one source file.
type Outcome struct {
	SourcePath  string
	SourceMTime time.Time
	Status      model.AssetStatus
	Err         error
	Width       int
	Height      int
}

// Result holds the artifact sets of one project in candidate order, plus
// one Outcome per candidate.
type Result struct {
	Images   []model.ImageArtifactSet
	Outcomes []Outcome
	Encoded  int
	Cached   int
	Failed   int
}

// Transcoder produces the renditions of a project's images.
type Transcoder struct {
	codec  Codec
	opts   Options
	logger *logger.Logger
}

// NewTranscoder creates a Transcoder using codec for all pixel work.
func NewTranscoder(codec Codec, opts Options, logger *logger.Logger) *Transcoder {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Transcoder{codec: codec, opts: opts, logger: logger}
}

type task struct {
	index   int
	name    string
	source  string
	outputs Outputs
}

// Transcode processes every qualifying image in job.Dir. Failures of single
// files are recorded in the Result and never abort the project. An error is
// returned only when the project cannot be processed at all or ctx is done.
func (t *Transcoder) Transcode(ctx context.Context, job Job) (Result, error) {
	names, err := Candidates(job.Dir)
	if err != nil {
		return Result{}, fmt.Errorf("list images in %s: %w", job.Dir, err)
	}
	if len(names) == 0 {
		return Result{}, nil
	}

	outDir := filepath.Join(t.opts.OutputDir, job.Slug)
	if err := storage.EnsureDirs(outDir); err != nil {
		return Result{}, err
	}

	registry := naming.NewRegistry("_")
	tasks := make([]task, len(names))
	for i, name := range names {
		base, renamed := registry.Claim(naming.SanitizeBase(name))
		if renamed {
			t.logger.Warning("Image %s in %s collides with another file name, writing it as %s", name, job.Slug, base)
		}
		tasks[i] = task{
			index:   i,
			name:    name,
			source:  filepath.Join(job.Dir, name),
			outputs: Outputs{Dir: outDir, Base: base},
		}
	}

	outcomes := make([]Outcome, len(tasks))
	sets := make([]*model.ImageArtifactSet, len(tasks))
	run := func(ctx context.Context, tk task) {
		outcomes[tk.index], sets[tk.index] = t.processFile(ctx, job.Slug, tk)
	}

	if t.opts.Workers == 1 || len(tasks) == 1 {
		for _, tk := range tasks {
			if ctx.Err() != nil {
				break
			}
			run(ctx, tk)
		}
	} else {
		pool := workerpool.New(min(t.opts.Workers, len(tasks)), len(tasks))
		pool.Start(ctx)
		t.logger.Info("Encoding %d images of %s with %d workers", len(tasks), job.Slug, pool.Workers())
		for _, tk := range tasks {
			tk := tk
			if err := pool.Submit(func(ctx context.Context) error {
				run(ctx, tk)
				return nil
			}); err != nil {
				break
			}
		}
		pool.Close()
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// Wyniki zawsze w kolejności kandydatów, niezależnie od kolejności zakończenia
	var result Result
	result.Outcomes = outcomes
	for i, outcome := range outcomes {
		switch outcome.Status {
		case model.AssetEncoded:
			result.Encoded++
		case model.AssetCached:
			result.Cached++
		default:
			result.Failed++
		}
		if sets[i] != nil {
			result.Images = append(result.Images, *sets[i])
		}
	}
	return result, nil
}

func (t *Transcoder) processFile(ctx context.Context, slug string, tk task) (Outcome, *model.ImageArtifactSet) {
	outcome := Outcome{SourcePath: tk.source}
	fail := func(err error) (Outcome, *model.ImageArtifactSet) {
		t.logger.Warning("Error processing image %s: %v", tk.name, err)
		outcome.Status = model.AssetFailed
		outcome.Err = err
		return outcome, nil
	}

	info, err := os.Stat(tk.source)
	if err != nil {
		return fail(err)
	}
	outcome.SourceMTime = info.ModTime()

	if !t.opts.Force && IsFresh(info.ModTime(), tk.outputs.Paths()) {
		size, err := t.codec.Probe(tk.outputs.FullPath(FormatJPEG))
		if err == nil {
			outcome.Status = model.AssetCached
			outcome.Width, outcome.Height = size.X, size.Y
			set := t.artifactSet(slug, tk, size)
			return outcome, &set
		}
		t.logger.Warning("Cached rendition of %s is unreadable, re-encoding: %v", tk.name, err)
	}

	size, err := t.encodeWithDeadline(ctx, tk)
	if err != nil {
		return fail(err)
	}
	outcome.Status = model.AssetEncoded
	outcome.Width, outcome.Height = size.X, size.Y
	t.logger.Info("Processed %s -> %s/%s", tk.name, slug, tk.outputs.FullName(FormatJPEG))

	set := t.artifactSet(slug, tk, size)
	return outcome, &set
}

type encodeResult struct {
	size image.Point
	err  error
}

// encodeWithDeadline runs encode under the per-file time limit. Codec calls
// cannot be interrupted, so on timeout the encode goroutine is abandoned;
// it stops before its next write.
func (t *Transcoder) encodeWithDeadline(ctx context.Context, tk task) (image.Point, error) {
	fctx, cancel := ctx, context.CancelFunc(func() {})
	if t.opts.FileTimeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, t.opts.FileTimeout)
	}
	defer cancel()

	done := make(chan encodeResult, 1)
	go func() {
		size, err := t.encode(fctx, tk)
		done <- encodeResult{size: size, err: err}
	}()

	select {
	case r := <-done:
		return r.size, r.err
	case <-fctx.Done():
		if errors.Is(fctx.Err(), context.DeadlineExceeded) {
			return image.Point{}, fmt.Errorf("%w after %s", ErrDeadline, t.opts.FileTimeout)
		}
		return image.Point{}, fctx.Err()
	}
}

func (t *Transcoder) encode(ctx context.Context, tk task) (image.Point, error) {
	src, err := t.codec.Decode(tk.source)
	if err != nil {
		return image.Point{}, err
	}
	defer src.Close()

	size := src.Size()
	if size.X <= 0 || size.Y <= 0 {
		return image.Point{}, fmt.Errorf("image %s has no pixels", tk.name)
	}

	fullSize := FitInside(size, t.opts.MaxSize)
	full, err := src.Resample(image.Rectangle{Max: size}, fullSize)
	if err != nil {
		return image.Point{}, fmt.Errorf("resize: %w", err)
	}
	defer full.Close()
	if err := t.writeRenditions(ctx, full, tk.outputs.FullPath, FullQuality); err != nil {
		return image.Point{}, err
	}

	thumb, err := src.Resample(CoverCrop(size, t.opts.ThumbSize), t.opts.ThumbSize)
	if err != nil {
		return image.Point{}, fmt.Errorf("thumbnail: %w", err)
	}
	defer thumb.Close()
	if err := t.writeRenditions(ctx, thumb, tk.outputs.ThumbPath, ThumbQuality); err != nil {
		return image.Point{}, err
	}

	return fullSize, nil
}

func (t *Transcoder) writeRenditions(ctx context.Context, img Image, pathFor func(Format) string, quality Quality) error {
	for _, f := range Formats {
		data, err := img.Encode(f, quality.For(f))
		if err != nil {
			return fmt.Errorf("encode %s: %w", f, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := storage.WriteFileAtomic(pathFor(f), data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transcoder) artifactSet(slug string, tk task, size image.Point) model.ImageArtifactSet {
	url := func(name string) string {
		return strings.TrimRight(t.opts.URLPrefix, "/") + "/" + slug + "/" + name
	}
	return model.ImageArtifactSet{
		Src: model.FormatSet{
			AVIF: url(tk.outputs.FullName(FormatAVIF)),
			WebP: url(tk.outputs.FullName(FormatWebP)),
			JPEG: url(tk.outputs.FullName(FormatJPEG)),
		},
		Thumbnail: model.FormatSet{
			AVIF: url(tk.outputs.ThumbName(FormatAVIF)),
			WebP: url(tk.outputs.ThumbName(FormatWebP)),
			JPEG: url(tk.outputs.ThumbName(FormatJPEG)),
		},
		Alt:    slug + " - " + strings.TrimSuffix(tk.name, filepath.Ext(tk.name)),
		Width:  size.X,
		Height: size.Y,
	}
}

// Candidates returns the qualifying image file names in dir, in natural order.
func Candidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !IsCandidate(entry.Name()) || !isRegularFile(entry, filepath.Join(dir, entry.Name())) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.SliceStable(names, func(i, j int) bool { return naming.NaturalLess(names[i], names[j]) })
	return names, nil
}

// IsCandidate reports whether a file name qualifies as a source image.
func IsCandidate(name string) bool {
	lower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "."):
		return false
	case strings.HasPrefix(lower, ThumbPrefix):
		return false
	case strings.Contains(lower, "archive"):
		return false
	}
	return SourceExtensions[filepath.Ext(lower)]
}

func isRegularFile(entry os.DirEntry, path string) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
