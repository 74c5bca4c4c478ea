package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// RunSummary reports what a pipeline run did.
type RunSummary struct {
	RunID           string        `json:"runId"`
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
	Forced          bool          `json:"forced"`
	ProjectsFound   int           `json:"projectsFound"`
	ProjectsEmitted int           `json:"projectsEmitted"`
	ProjectsDropped int           `json:"projectsDropped"`
	SlugCollisions  int           `json:"slugCollisions"`
	ImagesEncoded   int           `json:"imagesEncoded"`
	ImagesCached    int           `json:"imagesCached"`
	ImagesFailed    int           `json:"imagesFailed"`
	WalkErrors      int           `json:"walkErrors"`
	ManifestPath    string        `json:"manifestPath"`
}

// MarshalJSON formats the start time as RFC 3339 and the duration as text.
func (s RunSummary) MarshalJSON() ([]byte, error) {
	type Alias RunSummary
	return json.Marshal(&struct {
		StartedAt string `json:"startedAt"`
		Duration  string `json:"duration"`
		Alias
	}{
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Duration:  s.Duration.Round(time.Millisecond).String(),
		Alias:     (Alias)(s),
	})
}

// String renders the one-line summary printed at the end of a run.
func (s RunSummary) String() string {
	return fmt.Sprintf(
		"%d/%d projects written (%d dropped), images: %d encoded, %d cached, %d failed, %d walk errors in %s",
		s.ProjectsEmitted, s.ProjectsFound, s.ProjectsDropped,
		s.ImagesEncoded, s.ImagesCached, s.ImagesFailed, s.WalkErrors,
		s.Duration.Round(time.Millisecond),
	)
}
