package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"contentpipeline/internal/services/transcode"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeResampleEncode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.jpg")
	writeJPEG(t, path, 400, 300)
	codec := NewOpenCVCodec()

	img, err := codec.Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	defer img.Close()
	if img.Size() != image.Pt(400, 300) {
		t.Fatalf("Size = %v, expected 400x300", img.Size())
	}

	thumb, err := img.Resample(transcode.CoverCrop(img.Size(), image.Pt(60, 40)), image.Pt(60, 40))
	if err != nil {
		t.Fatalf("Resample: %v", err)
	}
	defer thumb.Close()
	if thumb.Size() != image.Pt(60, 40) {
		t.Errorf("thumbnail size = %v", thumb.Size())
	}

	data, err := thumb.Encode(transcode.FormatJPEG, transcode.EncodeParams{Quality: 80, Progressive: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := os.WriteFile(out, data, 0644); err != nil {
		t.Fatal(err)
	}

	size, err := codec.Probe(out)
	if err != nil || size != image.Pt(60, 40) {
		t.Errorf("Probe = %v (%v), expected 60x40", size, err)
	}
}

func TestEncodeWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.jpg")
	writeJPEG(t, path, 64, 64)

	img, err := NewOpenCVCodec().Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	defer img.Close()

	data, err := img.Encode(transcode.FormatWebP, transcode.EncodeParams{Quality: 75})
	if err != nil {
		t.Fatalf("Encode webp: %v", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Error("output is not a WebP container")
	}
}

func TestDecode_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("definitely not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewOpenCVCodec().Decode(path)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestResample_RejectsCropOutsideImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src.jpg")
	writeJPEG(t, path, 50, 50)

	img, err := NewOpenCVCodec().Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	defer img.Close()

	if _, err := img.Resample(image.Rect(0, 0, 100, 100), image.Pt(10, 10)); err == nil {
		t.Error("expected an error for a crop larger than the image")
	}
}

func TestEncodeFlags(t *testing.T) {
	ext, flags := encodeFlags(transcode.FormatAVIF, transcode.EncodeParams{Quality: 65})
	if string(ext) != ".avif" || len(flags) != 2 || flags[0] != imwriteAVIFQuality || flags[1] != 65 {
		t.Errorf("avif flags = %s %v", ext, flags)
	}

	_, plain := encodeFlags(transcode.FormatJPEG, transcode.EncodeParams{Quality: 80})
	_, progressive := encodeFlags(transcode.FormatJPEG, transcode.EncodeParams{Quality: 85, Progressive: true})
	if len(plain) != 2 || len(progressive) != 4 {
		t.Errorf("jpeg flags = %v / %v", plain, progressive)
	}
}
