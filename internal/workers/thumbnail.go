package workers

import (
	"context"
	"log/slog"
	"os"

	"github.com/wgergely0/bookmarks-core/internal/bookmarkdb"
	"github.com/wgergely0/bookmarks-core/internal/imagecache"
	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/pathseq"
)

// maxThumbnailSourceBytes is the bail-out threshold: generating a
// thumbnail from a source past 2 GiB is not worth the decode cost, so the
// row is latched loaded with no thumbnail.
const maxThumbnailSourceBytes = 2 << 30

// ThumbnailRowSize is the in-memory cache height the UI requests when
// displaying a row's thumbnail, distinct from ThumbnailImageSize (the
// fixed on-disk PNG dimension MakeThumbnail writes).
const ThumbnailRowSize = 128

// ThumbnailProcessor builds the Thumbnail-worker row pass: fast-path bail,
// resolve source (collapsed start path for sequences), derive dest via db,
// try the cache, fall back to MakeThumbnail, and on failure render the
// "failed" placeholder, latching thumbnail_loaded via a deferred publish on
// every path past the fast-path bail (an already-loaded or archived row
// returns without publishing).
func ThumbnailProcessor(cache *imagecache.Cache, db func(row *model.RowRecord) *bookmarkdb.DB, probe imagecache.MovieProbe) Processor {
	return func(_ context.Context, row *model.RowRecord) {
		if row.ThumbnailLoaded() || row.Archived() {
			return
		}
		defer row.PublishThumbnailLoaded()

		source := row.Path
		if row.Kind == model.KindSequence {
			source = pathseq.StartPath(row.Path)
		}

		d := db(row)
		if d == nil {
			return
		}
		dest := d.ThumbnailPath(source)
		row.SetThumbnailPath(dest)

		if _, ok := cache.Get(dest, ThumbnailRowSize, true); ok {
			return
		}

		if info, err := os.Stat(source); err == nil && info.Size() > maxThumbnailSourceBytes {
			slog.Debug("thumbnail source exceeds size cap, skipping", "path", source, "size", info.Size())
			return
		}

		if err := cache.MakeThumbnail(source, dest, imagecache.ThumbnailImageSize, probe); err != nil {
			slog.Warn("thumbnail generation failed, writing placeholder", "path", source, "err", err)
			placeholder := imagecache.FailedPlaceholder(imagecache.ThumbnailImageSize)
			if werr := imagecache.WriteImage(dest, placeholder); werr != nil {
				slog.Warn("failed to write placeholder thumbnail", "dest", dest, "err", werr)
				return
			}
		}
		cache.Get(dest, ThumbnailRowSize, true)
	}
}
