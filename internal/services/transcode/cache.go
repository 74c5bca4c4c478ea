package transcode

import (
	"os"
	"path/filepath"
	"time"
)

// ThumbPrefix marks thumbnail renditions. Source files carrying it are never processed.
const ThumbPrefix = "thumb_"

// Outputs names the six files produced for one source image.
type Outputs struct {
	Dir  string
	Base string
}

// FullName is the file name of the full-size rendition in format f.
func (o Outputs) FullName(f Format) string {
	return o.Base + f.Ext()
}

// ThumbName is the file name of the thumbnail rendition in format f.
func (o Outputs) ThumbName(f Format) string {
	return ThumbPrefix + o.Base + f.Ext()
}

// FullPath is the location of the full-size rendition in format f.
func (o Outputs) FullPath(f Format) string {
	return filepath.Join(o.Dir, o.FullName(f))
}

// ThumbPath is the location of the thumbnail rendition in format f.
func (o Outputs) ThumbPath(f Format) string {
	return filepath.Join(o.Dir, o.ThumbName(f))
}

// Paths returns all six output paths.
func (o Outputs) Paths() []string {
	paths := make([]string, 0, 2*len(Formats))
	for _, f := range Formats {
		paths = append(paths, o.FullPath(f), o.ThumbPath(f))
	}
	return paths
}

// IsFresh reports whether every path exists as a regular file modified
// strictly after sourceMTime. One missing or stale file makes the whole set stale.
func IsFresh(sourceMTime time.Time, paths []string) bool {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			return false
		}
		if !info.ModTime().After(sourceMTime) {
			return false
		}
	}
	return true
}
