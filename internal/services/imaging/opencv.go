// Package imaging implements transcode.Codec with OpenCV.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"

	"gocv.io/x/gocv"

	"contentpipeline/internal/services/transcode"
)

// ErrDecode is returned when OpenCV cannot read a source image.
var ErrDecode = errors.New("failed to decode image")

// OpenCV's IMWRITE_AVIF_QUALITY; gocv has no constant for it.
const imwriteAVIFQuality = 512

// OpenCVCodec decodes, resizes and encodes images with gocv.
type OpenCVCodec struct{}

// NewOpenCVCodec creates the production codec.
func NewOpenCVCodec() *OpenCVCodec {
	return &OpenCVCodec{}
}

// Decode reads the file at path as an 8-bit BGR image. EXIF orientation is applied.
func (c *OpenCVCodec) Decode(path string) (transcode.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrDecode, path, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("%w %s: decoded image is empty", ErrDecode, path)
	}
	return &matImage{mat: mat}, nil
}

// Probe reads only the header of a JPEG rendition.
func (c *OpenCVCodec) Probe(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

type matImage struct {
	mat gocv.Mat
}

func (m *matImage) Size() image.Point {
	return image.Pt(m.mat.Cols(), m.mat.Rows())
}

// Resample crops then resizes. Area interpolation is used when shrinking,
// cubic when the crop has to be enlarged.
func (m *matImage) Resample(crop image.Rectangle, size image.Point) (transcode.Image, error) {
	bounds := image.Rectangle{Max: m.Size()}
	if crop.Empty() || !crop.In(bounds) {
		return nil, fmt.Errorf("crop %v outside image %v", crop, bounds)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid target size %v", size)
	}

	region := m.mat.Region(crop)
	defer region.Close()

	interp := gocv.InterpolationArea
	if size.X > crop.Dx() || size.Y > crop.Dy() {
		interp = gocv.InterpolationCubic
	}

	dst := gocv.NewMat()
	if err := gocv.Resize(region, &dst, size, 0, 0, interp); err != nil {
		dst.Close()
		return nil, fmt.Errorf("failed to resize image: %v", err)
	}
	return &matImage{mat: dst}, nil
}

func (m *matImage) Encode(format transcode.Format, params transcode.EncodeParams) ([]byte, error) {
	ext, flags := encodeFlags(format, params)

	buf, err := gocv.IMEncodeWithParams(ext, m.mat, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %v", format, err)
	}
	defer buf.Close()

	// Bufor natywny zostaje zwolniony, więc kopiujemy dane
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	if len(data) == 0 {
		return nil, fmt.Errorf("encoder produced no %s data", format)
	}
	return data, nil
}

func (m *matImage) Close() error {
	return m.mat.Close()
}

func encodeFlags(format transcode.Format, params transcode.EncodeParams) (gocv.FileExt, []int) {
	switch format {
	case transcode.FormatWebP:
		return gocv.FileExt(format.Ext()), []int{int(gocv.IMWriteWebpQuality), params.Quality}
	case transcode.FormatAVIF:
		return gocv.FileExt(format.Ext()), []int{imwriteAVIFQuality, params.Quality}
	}
	flags := []int{int(gocv.IMWriteJpegQuality), params.Quality}
	if params.Progressive {
		flags = append(flags, int(gocv.IMWriteJpegProgressive), 1)
	}
	return gocv.JPEGFileExt, flags
}
