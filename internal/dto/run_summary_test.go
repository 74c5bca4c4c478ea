package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRunSummary_MarshalJSON(t *testing.T) {
	s := RunSummary{
		RunID:           "abc",
		StartedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Duration:        1500*time.Millisecond + 300*time.Microsecond,
		ProjectsFound:   3,
		ProjectsEmitted: 2,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["startedAt"] != "2025-06-01T12:00:00Z" {
		t.Errorf("startedAt = %v", decoded["startedAt"])
	}
	if decoded["duration"] != "1.5s" {
		t.Errorf("duration = %v", decoded["duration"])
	}
	if decoded["projectsEmitted"] != float64(2) {
		t.Errorf("projectsEmitted = %v", decoded["projectsEmitted"])
	}
}

func TestRunSummary_String(t *testing.T) {
	s := RunSummary{ProjectsFound: 4, ProjectsEmitted: 3, ProjectsDropped: 1, ImagesEncoded: 10, ImagesCached: 2, ImagesFailed: 1}
	text := s.String()
	for _, part := range []string{"3/4 projects", "1 dropped", "10 encoded", "2 cached", "1 failed"} {
		if !strings.Contains(text, part) {
			t.Errorf("summary %q is missing %q", text, part)
		}
	}
}
