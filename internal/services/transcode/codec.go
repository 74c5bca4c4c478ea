// Package transcode turns the source photographs of one project into the
// full-size and thumbnail renditions referenced by the manifest.
package transcode

import "image"

// Format is an output encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
)

// Formats lists every encoding produced per rendition, in encode order.
var Formats = []Format{FormatJPEG, FormatWebP, FormatAVIF}

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatWebP:
		return ".webp"
	case FormatAVIF:
		return ".avif"
	}
	return "." + string(f)
}

// Codec decodes source files. The production implementation lives in the
// imaging package; tests use transcodetest.FakeCodec.
type Codec interface {
	// Decode reads the image at path.
	Decode(path string) (Image, error)
	// Probe returns the pixel dimensions of an encoded file without a full decode where possible.
	Probe(path string) (image.Point, error)
}

// Image is a decoded raster. Callers must Close every Image they obtain,
// including the ones returned by Resample.
type Image interface {
	Size() image.Point
	// Resample crops to crop (in source pixels) and scales the result to size.
	Resample(crop image.Rectangle, size image.Point) (Image, error)
	Encode(format Format, params EncodeParams) ([]byte, error)
	Close() error
}

// EncodeParams are the encoder settings for one file.
type EncodeParams struct {
	Quality     int
	Progressive bool
}

// Quality holds per-format encoder quality settings (0-100).
type Quality struct {
	JPEG            int
	WebP            int
	AVIF            int
	ProgressiveJPEG bool
}

// For returns the encoder settings configured for f.
func (q Quality) For(f Format) EncodeParams {
	switch f {
	case FormatWebP:
		return EncodeParams{Quality: q.WebP}
	case FormatAVIF:
		return EncodeParams{Quality: q.AVIF}
	}
	return EncodeParams{Quality: q.JPEG, Progressive: q.ProgressiveJPEG}
}

var (
	FullQuality  = Quality{JPEG: 85, WebP: 80, AVIF: 65, ProgressiveJPEG: true}
	ThumbQuality = Quality{JPEG: 80, WebP: 75, AVIF: 60}
)
