package transcode

import (
	"image"
	"math"
)

// FitInside scales src to fit within bounds, keeping the aspect ratio.
// Images already inside bounds keep their size.
func FitInside(src, bounds image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 {
		return image.Point{}
	}
	if src.X <= bounds.X && src.Y <= bounds.Y {
		return src
	}
	scale := math.Min(float64(bounds.X)/float64(src.X), float64(bounds.Y)/float64(src.Y))
	return image.Pt(
		max(1, int(math.Round(float64(src.X)*scale))),
		max(1, int(math.Round(float64(src.Y)*scale))),
	)
}

// CoverCrop returns the centred region of src that has the aspect ratio of
// target. Scaling that region to target fills it completely.
func CoverCrop(src, target image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || target.X <= 0 || target.Y <= 0 {
		return image.Rectangle{}
	}
	w, h := src.X, src.Y
	// src.X/src.Y > target.X/target.Y: obraz szerszy, przycinamy boki
	if src.X*target.Y > src.Y*target.X {
		w = max(1, int(math.Round(float64(src.Y)*float64(target.X)/float64(target.Y))))
	} else {
		h = max(1, int(math.Round(float64(src.X)*float64(target.Y)/float64(target.X))))
	}
	x0 := (src.X - w) / 2
	y0 := (src.Y - h) / 2
	return image.Rect(x0, y0, x0+w, y0+h)
}
