package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"contentpipeline/internal/model"
)

// Load reads a manifest written by Builder.Write.
func Load(path string) ([]model.ProjectRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.ProjectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return records, nil
}

// FilterByCategory returns the records of one category, keeping order.
func FilterByCategory(records []model.ProjectRecord, category model.Category) []model.ProjectRecord {
	var filtered []model.ProjectRecord
	for _, record := range records {
		if record.Category == category {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// FindBySlug returns the record with the given slug.
func FindBySlug(records []model.ProjectRecord, slug string) (model.ProjectRecord, bool) {
	for _, record := range records {
		if record.Slug == slug {
			return record, true
		}
	}
	return model.ProjectRecord{}, false
}
