package model

import "time"

// AssetStatus is the outcome of processing one source image.
type AssetStatus string

const (
	AssetEncoded AssetStatus = "encoded"
	AssetCached  AssetStatus = "cached"
	AssetFailed  AssetStatus = "failed"
)

// Run represents one pipeline invocation recorded in the catalog.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Forced     bool       `json:"forced"`
	Projects   int        `json:"projects"`
	Dropped    int        `json:"dropped"`
	Encoded    int        `json:"encoded"`
	Cached     int        `json:"cached"`
	Failed     int        `json:"failed"`
}

// Asset represents the processing record of one source image in a run.
type Asset struct {
	ID          int64       `json:"id"`
	RunID       string      `json:"run_id"`
	Project     string      `json:"project"`
	Category    Category    `json:"category"`
	SourcePath  string      `json:"source_path"`
	SourceMTime time.Time   `json:"source_mtime"`
	Status      AssetStatus `json:"status"`
	Error       string      `json:"error,omitempty"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	TakenAt     *time.Time  `json:"taken_at,omitempty"`
	CameraModel string      `json:"camera_model,omitempty"`
}
