// Package manifest assembles, writes and reads the projects manifest.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"contentpipeline/internal/logger"
	"contentpipeline/internal/model"
	"contentpipeline/internal/services/storage"
)

// Builder turns processed projects into the manifest file.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(logger *logger.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build keeps the records that have at least one image, in their original order.
func (b *Builder) Build(records []model.ProjectRecord) []model.ProjectRecord {
	kept := make([]model.ProjectRecord, 0, len(records))
	for _, record := range records {
		if len(record.Images) == 0 {
			b.logger.Warning("Project %s has no images, leaving it out of the manifest", record.Slug)
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

// Write serialises records to path, replacing any previous manifest atomically.
func (b *Builder) Write(path string, records []model.ProjectRecord) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	b.logger.Info("Generated projects data: %s (%d projects)", path, len(records))
	return nil
}

// Encode renders records as two-space indented JSON with a trailing newline.
// No records encode as "[]".
func Encode(records []model.ProjectRecord) ([]byte, error) {
	if records == nil {
		records = []model.ProjectRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
