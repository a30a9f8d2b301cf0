// Package imagecache implements the content-keyed image/thumbnail cache:
// memoised resized decodes plus on-demand thumbnail generation to a
// deterministic on-disk path. Resizing uses golang.org/x/image/draw.
package imagecache

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	ximagedraw "golang.org/x/image/draw"

	"github.com/wgergely0/bookmarks-core/internal/assetbrowser/errs"
)

// BackgroundColourKey is the literal height value that retrieves the
// derived average colour instead of a resized image.
const BackgroundColourKey = ":backgroundcolor"

// ThumbnailImageSize is the design default maximum thumbnail dimension.
const ThumbnailImageSize = 512

// acceptedMovieCodecs is the allowlist MakeThumbnail honours for movie
// sources; anything else is rejected.
var acceptedMovieCodecs = map[string]bool{
	"h.264":  true,
	"mpeg-4": true,
}

// Colour is a straightforward RGBA average, 0-255 per channel.
type Colour struct {
	R, G, B, A uint8
}

// Entry is one memoised cache value: a decoded/resized image (for rsc: keys,
// the rendered resource image) plus its average colour.
type Entry struct {
	Image   image.Image
	Average Colour
}

// Cache is the single content-keyed store: one mutex around the key→value
// map, safe for concurrent lookup/insertion from any worker or the UI
// thread. Decode work happens outside the lock.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	decode  func(path string) (image.Image, string, error)
}

// New creates an empty cache whose decode backend is decodeFile
// (image.Decode against a local path); tests may substitute a stub.
func New() *Cache {
	return &Cache{entries: make(map[string]Entry), decode: decodeFile}
}

func cacheKey(path string, height any) string {
	return fmt.Sprintf("%s\x00%v", path, height)
}

// Get returns the cached entry if present and overwrite is false.
// Otherwise it decodes path, resizes (longer side = height, preserving
// aspect ratio), memoises the result and the average colour, and returns
// it. The average colour alone is retrieved with GetBackgroundColour.
func (c *Cache) Get(path string, height int, overwrite bool) (Entry, bool) {
	return c.get(path, height, height, overwrite)
}

// GetBackgroundColour is Get's BackgroundColourKey form: same decode and
// memoisation, but keyed under the colour sentinel so it never collides
// with a resized-image entry.
func (c *Cache) GetBackgroundColour(path string, overwrite bool) (Colour, bool) {
	e, ok := c.get(path, BackgroundColourKey, 0, overwrite)
	return e.Average, ok
}

func (c *Cache) get(path string, tag any, height int, overwrite bool) (Entry, bool) {
	key := cacheKey(path, tag)
	c.mu.Lock()
	if !overwrite {
		if e, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return e, true
		}
	}
	c.mu.Unlock()

	img, _, err := c.decode(path)
	if err != nil {
		return Entry{}, false
	}
	resized := Resize(img, height)
	avg := AverageColourOf(resized)
	e := Entry{Image: resized, Average: avg}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return e, true
}

// GetResource fetches (or renders+memoises) a static UI resource keyed
// "rsc:<name>:<size>:<colour>:<opacity>", a namespace that never collides with
// content thumbnail keys.
func (c *Cache) GetResource(name string, colour Colour, size int, opacity float64, render func() (image.Image, error)) (image.Image, bool) {
	key := fmt.Sprintf("rsc:%s:%d:%d,%d,%d,%d:%.3f", name, size, colour.R, colour.G, colour.B, colour.A, opacity)
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.Image, true
	}
	c.mu.Unlock()

	img, err := render()
	if err != nil {
		return nil, false
	}
	img = Resize(img, size)
	c.mu.Lock()
	c.entries[key] = Entry{Image: img, Average: AverageColourOf(img)}
	c.mu.Unlock()
	return img, true
}

// Invalidate evicts every entry whose key starts with pathPrefix, used when
// a row's thumbnail file is replaced or removed.
func (c *Cache) Invalidate(pathPrefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if len(k) >= len(pathPrefix) && k[:len(pathPrefix)] == pathPrefix {
			delete(c.entries, k)
		}
	}
}

// Resize scales img so max(width, height) = size, preserving aspect ratio,
// using a high-quality resample kernel.
func Resize(img image.Image, size int) image.Image {
	if size <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}
	var dw, dh int
	if w >= h {
		dw = size
		dh = int(float64(size) * float64(h) / float64(w))
	} else {
		dh = size
		dw = int(float64(size) * float64(w) / float64(h))
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	ximagedraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// AverageColourOf computes the channel means across img's pixels.
func AverageColourOf(img image.Image) Colour {
	b := img.Bounds()
	var rSum, gSum, bSum, aSum, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(bl >> 8)
			aSum += uint64(a >> 8)
			n++
		}
	}
	if n == 0 {
		return Colour{}
	}
	return Colour{
		R: uint8(rSum / n),
		G: uint8(gSum / n),
		B: uint8(bSum / n),
		A: uint8(aSum / n),
	}
}

// AverageColour decodes path fresh (not via the cache) and returns its
// average colour.
func (c *Cache) AverageColour(path string) (Colour, error) {
	img, _, err := c.decode(path)
	if err != nil {
		return Colour{}, err
	}
	return AverageColourOf(img), nil
}

// MovieProbe is satisfied by a collaborator able to report a movie
// source's codec name, so MakeThumbnail can apply the accepted-codec
// allowlist without this package depending on a demuxer.
type MovieProbe interface {
	// Codec returns the lowercase codec identifier for path, or ok=false
	// if path is not a recognised movie container.
	Codec(path string) (codec string, ok bool)
}

var errUnsupportedMovieCodec = errors.New("imagecache: movie codec not in accepted list")

// MakeThumbnail decodes source, flattens/normalises it, resamples to
// destSize x destSize, and writes an 8-bit PNG to dest. probe may be nil
// if source is never a movie container.
func (c *Cache) MakeThumbnail(source, dest string, destSize int, probe MovieProbe) error {
	if probe != nil {
		if codec, ok := probe.Codec(source); ok && !acceptedMovieCodecs[codec] {
			return fmt.Errorf("%w: %s", errUnsupportedMovieCodec, codec)
		}
	}

	img, _, err := c.decode(source)
	if err != nil {
		return fmt.Errorf("imagecache: decoding %s: %w: %w", source, errs.DecodeFailed, err)
	}

	flat := flattenToRGBA(img)
	thumb := Resize(flat, destSize)
	// Pad to an exact destSize x destSize canvas so every thumbnail file has
	// identical dimensions regardless of the source's aspect ratio.
	canvas := image.NewRGBA(image.Rect(0, 0, destSize, destSize))
	drawCheckerBackground(canvas)
	ox := (destSize - thumb.Bounds().Dx()) / 2
	oy := (destSize - thumb.Bounds().Dy()) / 2
	draw.Draw(canvas, thumb.Bounds().Add(image.Pt(ox, oy)), thumb, thumb.Bounds().Min, draw.Over)

	if err := writePNGAtomic(dest, canvas); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("imagecache: writing thumbnail: %w", err)
	}
	return nil
}

// flattenToRGBA channel-shuffles img into RGBA: single-channel greyscale
// fans to RGB, an *image.RGBA passes through unchanged, and anything
// else is projected via the standard RGBA() conversion.
func flattenToRGBA(img image.Image) image.Image {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		b := img.Bounds()
		out := image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				out.Set(x, y, color.RGBA{R: g.Y, G: g.Y, B: g.Y, A: 255})
			}
		}
		return out
	case *image.RGBA:
		return img
	default:
		b := img.Bounds()
		out := image.NewRGBA(b)
		draw.Draw(out, b, img, b.Min, draw.Src)
		return out
	}
}

// drawCheckerBackground fills dst with a neutral checker pattern so a
// composited thumbnail missing alpha still reads as "has transparency"
// rather than showing stray background colour.
func drawCheckerBackground(dst *image.RGBA) {
	const cell = 8
	light := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	dark := color.RGBA{R: 160, G: 160, B: 160, A: 255}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ((x/cell)+(y/cell))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// FailedPlaceholder renders the "failed to generate thumbnail" image used
// by the Thumbnail worker's fallback path. It is generated rather than
// loaded from a binary asset:
// a centred X over the same checker background make_thumbnail uses for
// missing alpha, so a failed thumbnail still visually reads as "this slot
// has content, decoding just failed" rather than a blank tile.
func FailedPlaceholder(size int) image.Image {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	drawCheckerBackground(canvas)
	mark := color.RGBA{R: 200, G: 60, B: 60, A: 255}
	const thickness = 3
	for i := 0; i < size; i++ {
		for t := -thickness; t <= thickness; t++ {
			if j := i + t; j >= 0 && j < size {
				canvas.Set(i, j, mark)
			}
			if j := size - 1 - i + t; j >= 0 && j < size {
				canvas.Set(i, j, mark)
			}
		}
	}
	return canvas
}

// WriteImage writes img to dest as an 8-bit PNG using the same atomic
// temp-file-then-rename sequence MakeThumbnail uses, so a placeholder
// written after a decode failure is just as crash-safe as a normal
// thumbnail.
func WriteImage(dest string, img image.Image) error {
	return writePNGAtomic(dest, img)
}

func writePNGAtomic(dest string, img image.Image) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating thumbnail directory: %w: %w", errs.WriteDenied, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".thumb-*.png.tmp")
	if err != nil {
		return fmt.Errorf("creating temp thumbnail: %w", err)
	}
	tmpPath := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing temp thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp thumbnail: %w", err)
	}
	closed = true
	return os.Rename(tmpPath, dest)
}

// decodeFile decodes the image at path from the local filesystem, the
// default decode backend. It reads the formats registered with the
// standard image.Decode registry; this package registers jpeg and png.
func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}
