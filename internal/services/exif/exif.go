// Package exif reads capture information from photo metadata for the catalog.
package exif

import (
	"fmt"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// Info is the subset of EXIF data recorded per asset.
type Info struct {
	TakenAt     *time.Time
	CameraModel string
}

// Read decodes the EXIF block of the file at path. Files without EXIF data
// (most PNG and TIFF exports) return an error; callers treat that as "unknown".
func Read(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		return Info{}, fmt.Errorf("decode exif %s: %w", path, err)
	}

	var info Info
	if t, err := x.DateTime(); err == nil {
		info.TakenAt = &t
	}
	if tag, err := x.Get(goexif.Model); err == nil {
		if model, err := tag.StringVal(); err == nil {
			info.CameraModel = strings.TrimSpace(strings.TrimRight(model, "\x00"))
		}
	}
	return info, nil
}
