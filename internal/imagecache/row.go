package imagecache

import (
	"fmt"
	"os"

	"github.com/wgergely0/bookmarks-core/internal/model"
)

// ScreenGrabber is the external collaborator Capture delegates to; the
// screen-grabber UI itself lives outside this core, which only needs this
// narrow interface to it.
type ScreenGrabber interface {
	// Grab captures whatever the collaborator considers "the current
	// screen region" and returns encoded image bytes (PNG or JPEG).
	Grab() ([]byte, error)
}

// Capture takes a screen capture via grabber, writes it to row's thumbnail
// path, invalidates cache entries prefixed by that path, then primes the
// cache with the new image at size.
func (c *Cache) Capture(row *model.RowRecord, grabber ScreenGrabber, size int) bool {
	dest := row.ThumbnailPath()
	if dest == "" {
		return false
	}
	data, err := grabber.Grab()
	if err != nil {
		return false
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return false
	}
	c.Invalidate(dest)
	_, ok := c.get(dest, size, size, true)
	return ok
}

// Remove deletes row's on-disk thumbnail if present, evicts every cache
// entry whose key is prefixed by its path, and resets the row's
// thumbnail_loaded latch and thumbnail field.
func (c *Cache) Remove(row *model.RowRecord) error {
	path := row.ThumbnailPath()
	if path != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("imagecache: removing thumbnail: %w", err)
		}
		c.Invalidate(path)
	}
	row.ResetThumbnail()
	return nil
}

// Pick behaves as MakeThumbnail with a user-chosen source rather than the
// row's natural source, then primes the cache the same way Capture does.
func (c *Cache) Pick(row *model.RowRecord, source string, destSize int) error {
	dest := row.ThumbnailPath()
	if dest == "" {
		return fmt.Errorf("imagecache: row has no thumbnail path")
	}
	if err := c.MakeThumbnail(source, dest, destSize, nil); err != nil {
		return err
	}
	c.Invalidate(dest)
	c.get(dest, destSize, destSize, true)
	row.SetThumbnailPath(dest)
	return nil
}
