package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"contentpipeline/internal/config"
	"contentpipeline/internal/logger"
	"contentpipeline/internal/model"
)

// Walker enumerates project directories under the configured category directories.
type Walker struct {
	root       string
	categories []config.CategoryDir
	logger     *logger.Logger
}

// NewWalker creates a Walker for root and the ordered category mapping.
func NewWalker(root string, categories []config.CategoryDir, logger *logger.Logger) *Walker {
	return &Walker{root: root, categories: categories, logger: logger}
}

// Walk returns every project directory in category order, then directory name order.
// Missing category directories contribute nothing; inaccessible entries are
// reported in the returned error slice and skipped.
func (w *Walker) Walk() ([]model.SourceProject, []error) {
	var projects []model.SourceProject
	var errs []error

	for _, cat := range w.categories {
		found, catErrs := w.walkCategory(cat)
		projects = append(projects, found...)
		errs = append(errs, catErrs...)
	}

	return projects, errs
}

func (w *Walker) walkCategory(cat config.CategoryDir) ([]model.SourceProject, []error) {
	dir := filepath.Join(w.root, cat.Dir)

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		w.logger.Info("Category directory %s not found, no %s projects", dir, cat.Category)
		return nil, nil
	}
	if err != nil {
		w.logger.Warning("Cannot access category directory %s: %v", dir, err)
		return nil, []error{fmt.Errorf("stat category %s: %w", dir, err)}
	}
	if !info.IsDir() {
		w.logger.Warning("Category path %s is not a directory", dir)
		return nil, []error{fmt.Errorf("category %s is not a directory", dir)}
	}

	// os.ReadDir zwraca wpisy posortowane po nazwie
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warning("Cannot read category directory %s: %v", dir, err)
		return nil, []error{fmt.Errorf("read category %s: %w", dir, err)}
	}

	var projects []model.SourceProject
	var errs []error
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(dir, name)
		isDir, err := isDirectory(entry, path)
		if err != nil {
			w.logger.Warning("Skipping %s: %v", path, err)
			errs = append(errs, fmt.Errorf("stat project %s: %w", path, err))
			continue
		}
		if !isDir {
			continue
		}

		projects = append(projects, model.SourceProject{
			SourcePath: path,
			Category:   model.Category(cat.Category),
			RawName:    name,
		})
	}

	w.logger.Info("Found %d %s project(s) in %s", len(projects), cat.Category, dir)
	return projects, errs
}

// isDirectory follows symlinks so linked project folders are treated like real ones.
func isDirectory(entry os.DirEntry, path string) (bool, error) {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
