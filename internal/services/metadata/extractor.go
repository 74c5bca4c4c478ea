package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"contentpipeline/internal/logger"
	"contentpipeline/internal/model"
)

// DescriptorExtensions lists the recognised descriptor file extensions (lowercase).
var DescriptorExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// ErrNoFrontMatter is returned by ParseFrontMatter when the document has no front-matter block.
var ErrNoFrontMatter = errors.New("no front matter")

// ErrInvalidYear is returned by ParseFrontMatter when the year cannot be read
// as a number. The other fields are still returned and Year is left nil.
var ErrInvalidYear = errors.New("invalid year")

// frontMatter mirrors the recognised descriptor keys.
type frontMatter struct {
	Title       *string   `yaml:"title"`
	Description *string   `yaml:"description"`
	Year        yaml.Node `yaml:"year"`
	Location    *string   `yaml:"location"`
}

// parseYear accepts both `year: 2023` and `year: "2023"`. A missing or null year is absent.
func parseYear(node yaml.Node) (*int, error) {
	if node.Kind == 0 || node.ShortTag() == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("%w: expected a scalar", ErrInvalidYear)
	}
	n, err := strconv.Atoi(strings.TrimSpace(node.Value))
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidYear, node.Value)
	}
	return &n, nil
}

// Extractor reads project descriptors.
type Extractor struct {
	logger *logger.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(logger *logger.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract returns the metadata of the project in dir. It never fails: a missing,
// unreadable or malformed descriptor yields empty metadata so defaults apply.
func (e *Extractor) Extract(dir string) model.ProjectMetadata {
	path, err := FindDescriptor(dir)
	if err != nil {
		e.logger.Warning("Cannot scan %s for a descriptor: %v", dir, err)
		return model.ProjectMetadata{}
	}
	if path == "" {
		e.logger.Info("No descriptor in %s, using defaults", filepath.Base(dir))
		return model.ProjectMetadata{}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warning("Cannot read descriptor %s: %v", path, err)
		return model.ProjectMetadata{}
	}

	meta, err := ParseFrontMatter(content)
	if errors.Is(err, ErrInvalidYear) {
		e.logger.Warning("Ignoring year in %s: %v", path, err)
		return meta
	}
	if errors.Is(err, ErrNoFrontMatter) {
		e.logger.Info("Descriptor %s has no front matter, using defaults", path)
		return model.ProjectMetadata{}
	}
	if err != nil {
		e.logger.Warning("Invalid front matter in %s, using defaults: %v", path, err)
		return model.ProjectMetadata{}
	}
	return meta
}

// FindDescriptor returns the first descriptor file in dir by name order, or "" if none.
// When several exist, only the first is used; which one wins is not part of the contract.
func FindDescriptor(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if DescriptorExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", nil
}

// ParseFrontMatter parses a leading "---" delimited YAML block. An unreadable
// year yields ErrInvalidYear together with the remaining fields.
func ParseFrontMatter(content []byte) (model.ProjectMetadata, error) {
	block, ok := splitFrontMatter(content)
	if !ok {
		return model.ProjectMetadata{}, ErrNoFrontMatter
	}

	var fm frontMatter
	if err := yaml.Unmarshal(block, &fm); err != nil {
		return model.ProjectMetadata{}, fmt.Errorf("parsing front matter: %w", err)
	}

	meta := model.ProjectMetadata{
		Title:       fm.Title,
		Description: fm.Description,
		Location:    fm.Location,
	}
	year, err := parseYear(fm.Year)
	if err != nil {
		return meta, err
	}
	meta.Year = year
	return meta, nil
}

// splitFrontMatter returns the YAML between the opening and closing "---" lines.
func splitFrontMatter(content []byte) ([]byte, bool) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, false
	}
	rest := content[4:]

	// Blok kończy się linią "---"; "----" albo "---foo" to zwykła treść
	for offset := 0; offset <= len(rest); {
		line := rest[offset:]
		end := bytes.IndexByte(line, '\n')
		if end >= 0 {
			line = line[:end]
		}
		if string(bytes.TrimRight(line, " \t")) == "---" {
			return rest[:offset], true
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, false
}
