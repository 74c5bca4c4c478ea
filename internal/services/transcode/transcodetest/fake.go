// Package transcodetest provides a Codec that needs no image libraries.
// Source "images" are text files holding their size, e.g. "4000x3000".
package transcodetest

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"contentpipeline/internal/services/transcode"
)

// ErrCorrupt is returned when decoding a source whose content starts with "corrupt".
var ErrCorrupt = errors.New("corrupt image data")

// FakeCodec implements transcode.Codec. Sources starting with "slow" take
// SlowDelay to decode.
type FakeCodec struct {
	SlowDelay time.Duration

	decodes atomic.Int64
	encodes atomic.Int64

	mu          sync.Mutex
	failFormats map[transcode.Format]bool
}

// NewFakeCodec creates a FakeCodec.
func NewFakeCodec() *FakeCodec {
	return &FakeCodec{SlowDelay: time.Second, failFormats: make(map[transcode.Format]bool)}
}

// FailFormat makes every Encode of f fail.
func (c *FakeCodec) FailFormat(f transcode.Format) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failFormats[f] = true
}

// Decodes returns how many sources were decoded.
func (c *FakeCodec) Decodes() int { return int(c.decodes.Load()) }

// Encodes returns how many renditions were encoded.
func (c *FakeCodec) Encodes() int { return int(c.encodes.Load()) }

func (c *FakeCodec) Decode(path string) (transcode.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c.decodes.Add(1)

	content := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(content, "corrupt"):
		return nil, ErrCorrupt
	case strings.HasPrefix(content, "slow"):
		time.Sleep(c.SlowDelay)
		content = strings.TrimSpace(strings.TrimPrefix(content, "slow"))
	}

	size, err := parseSize(content)
	if err != nil {
		return nil, err
	}
	return &fakeImage{codec: c, size: size}, nil
}

// Probe reads the size back from a rendition written by this codec.
func (c *FakeCodec) Probe(path string) (image.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return image.Point{}, err
	}
	fields := strings.Fields(string(data))
	if len(fields) < 2 {
		return image.Point{}, fmt.Errorf("not a rendition: %s", path)
	}
	return parseSize(fields[1])
}

func (c *FakeCodec) failing(f transcode.Format) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failFormats[f]
}

type fakeImage struct {
	codec *FakeCodec
	size  image.Point
}

func (i *fakeImage) Size() image.Point { return i.size }

func (i *fakeImage) Resample(crop image.Rectangle, size image.Point) (transcode.Image, error) {
	if crop.Empty() || !crop.In(image.Rectangle{Max: i.size}) {
		return nil, fmt.Errorf("crop %v outside %v", crop, i.size)
	}
	return &fakeImage{codec: i.codec, size: size}, nil
}

// Encode renders "<format> <W>x<H> q<quality>".
func (i *fakeImage) Encode(f transcode.Format, params transcode.EncodeParams) ([]byte, error) {
	if i.codec.failing(f) {
		return nil, fmt.Errorf("%s encoder unavailable", f)
	}
	i.codec.encodes.Add(1)
	return []byte(fmt.Sprintf("%s %dx%d q%d\n", f, i.size.X, i.size.Y, params.Quality)), nil
}

func (i *fakeImage) Close() error { return nil }

func parseSize(s string) (image.Point, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil {
		return image.Point{}, fmt.Errorf("bad size %q: %w", s, err)
	}
	return image.Pt(w, h), nil
}
