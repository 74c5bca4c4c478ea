package model

import (
	"strings"
	"time"
)

// Category classifies a project by the top-level content directory it lives in.
type Category string

const (
	CategoryResidential Category = "residential"
	CategoryUnbuilt     Category = "unbuilt"
)

// SourceProject is a project directory discovered during the tree walk.
type SourceProject struct {
	SourcePath string
	Category   Category
	RawName    string
}

// ProjectMetadata holds the optional front-matter fields of a project descriptor.
// A nil field means the descriptor did not provide it.
type ProjectMetadata struct {
	Title       *string
	Description *string
	Year        *int
	Location    *string
}

// ResolvedMetadata is ProjectMetadata with defaults applied.
type ResolvedMetadata struct {
	Title       string
	Description string
	Year        int
	Location    string
}

// Resolve fills absent fields: the title falls back to fallbackTitle,
// the year to now's calendar year, description and location to empty.
func (m ProjectMetadata) Resolve(fallbackTitle string, now time.Time) ResolvedMetadata {
	r := ResolvedMetadata{
		Title: fallbackTitle,
		Year:  now.Year(),
	}
	if m.Title != nil && strings.TrimSpace(*m.Title) != "" {
		r.Title = *m.Title
	}
	if m.Description != nil {
		r.Description = *m.Description
	}
	if m.Year != nil && *m.Year != 0 {
		r.Year = *m.Year
	}
	if m.Location != nil {
		r.Location = *m.Location
	}
	return r
}

// FormatSet maps each output encoding to the public path of its file.
type FormatSet struct {
	AVIF string `json:"avif"`
	WebP string `json:"webp"`
	JPEG string `json:"jpeg"`
}

// ImageArtifactSet describes the renditions produced from one source photograph.
type ImageArtifactSet struct {
	Src       FormatSet `json:"src"`
	Thumbnail FormatSet `json:"thumbnail"`
	Alt       string    `json:"alt"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
}

// ProjectRecord is one entry of the manifest. ID and Slug are always equal.
type ProjectRecord struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Category    Category           `json:"category"`
	Year        int                `json:"year"`
	Location    string             `json:"location"`
	Images      []ImageArtifactSet `json:"images"`
	Thumbnail   *ImageArtifactSet  `json:"thumbnail"`
	Slug        string             `json:"slug"`
}

// NewProjectRecord assembles a record; the thumbnail is the first image, if any.
func NewProjectRecord(slug string, category Category, meta ResolvedMetadata, images []ImageArtifactSet) ProjectRecord {
	if images == nil {
		images = []ImageArtifactSet{}
	}
	record := ProjectRecord{
		ID:          slug,
		Title:       meta.Title,
		Description: meta.Description,
		Category:    category,
		Year:        meta.Year,
		Location:    meta.Location,
		Images:      images,
		Slug:        slug,
	}
	if len(images) > 0 {
		first := images[0]
		record.Thumbnail = &first
	}
	return record
}
