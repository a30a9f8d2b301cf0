package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wgergely0/bookmarks-core/internal/bookmarkdb"
	"github.com/wgergely0/bookmarks-core/internal/imagecache"
	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/queue"
)

func openTestDB(t *testing.T) *bookmarkdb.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := bookmarkdb.Open(filepath.Join(dir, "bookmark.db"), dir, filepath.Join(dir, ".bookmark"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInfoProcessorCountsOpenTodosAndLatches(t *testing.T) {
	db := openTestDB(t)
	row := model.NewRow(1, 1, model.KindFile, "/a.ma", "a.ma", model.ParentPath{})
	row.Entries = []model.DirEntryHandle{{Path: row.Path}}

	notes := []noteEntry{{Text: "fix rig", Checked: false}, {Text: "done already", Checked: true}, {Text: "", Checked: false}}
	raw, _ := json.Marshal(notes)
	encoded := base64.StdEncoding.EncodeToString(raw)

	txn := db.Transaction(row.Path)
	txn.Set("description", "hero rig")
	txn.Set("notes", encoded)
	if err := txn.Commit(); err != nil {
		t.Fatal(err)
	}

	proc := InfoProcessor(0, func(*model.RowRecord) *bookmarkdb.DB { return db })
	proc(context.Background(), row)

	if !row.InfoLoaded() {
		t.Fatal("expected info_loaded latched")
	}
	if row.Description() != "hero rig" {
		t.Fatalf("expected description round-tripped, got %q", row.Description())
	}
	if row.TodoCount() != 1 {
		t.Fatalf("expected exactly 1 open todo, got %d", row.TodoCount())
	}
	if row.ExtraFlags()&model.FlagEditable == 0 || row.ExtraFlags()&model.FlagDraggable == 0 {
		t.Fatal("expected base editable+draggable bits always set")
	}
}

func TestInfoProcessorSequenceRowComputesStartEndFromBracketedPath(t *testing.T) {
	db := openTestDB(t)
	row := model.NewRow(1, 1, model.KindSequence, "/shots/shot010.[0001-0003].exr", "shot010.[0001-0003].exr", model.ParentPath{})
	row.Frames = []string{"0001", "0002", "0003"}
	row.Entries = []model.DirEntryHandle{
		{Path: "/shots/shot010.0001.exr"},
		{Path: "/shots/shot010.0002.exr"},
		{Path: "/shots/shot010.0003.exr"},
	}

	proc := InfoProcessor(0, func(*model.RowRecord) *bookmarkdb.DB { return db })
	proc(context.Background(), row)

	if row.StartPath != "/shots/shot010.0001.exr" {
		t.Fatalf("expected StartPath to encode the minimum frame, got %q", row.StartPath)
	}
	if row.EndPath != "/shots/shot010.0003.exr" {
		t.Fatalf("expected EndPath to encode the maximum frame, got %q", row.EndPath)
	}
}

func TestInfoProcessorCorruptNotesTreatedAsZero(t *testing.T) {
	db := openTestDB(t)
	row := model.NewRow(1, 1, model.KindFile, "/a.ma", "a.ma", model.ParentPath{})

	txn := db.Transaction(row.Path)
	txn.Set("notes", "not-valid-base64-json!!")
	if err := txn.Commit(); err != nil {
		t.Fatal(err)
	}

	proc := InfoProcessor(0, func(*model.RowRecord) *bookmarkdb.DB { return db })
	proc(context.Background(), row)

	if !row.InfoLoaded() {
		t.Fatal("expected info_loaded latched despite corrupt notes")
	}
	if row.TodoCount() != 0 {
		t.Fatalf("expected zero todos from corrupt blob, got %d", row.TodoCount())
	}
}

func TestThumbnailProcessorFallsBackToPlaceholderOnDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(source, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	db, err := bookmarkdb.Open(filepath.Join(dir, "bm.db"), dir, filepath.Join(dir, ".bookmark"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	row := model.NewRow(1, 1, model.KindFile, source, "broken.jpg", model.ParentPath{})
	cache := imagecache.New()
	proc := ThumbnailProcessor(cache, func(*model.RowRecord) *bookmarkdb.DB { return db }, nil)
	proc(context.Background(), row)

	if !row.ThumbnailLoaded() {
		t.Fatal("expected thumbnail_loaded latched after placeholder fallback")
	}
	if _, err := os.Stat(row.ThumbnailPath()); err != nil {
		t.Fatalf("expected placeholder written to disk: %v", err)
	}
}

func TestThumbnailProcessorFastPathBailsOnArchivedRow(t *testing.T) {
	row := model.NewRow(1, 1, model.KindFile, "/x", "x", model.ParentPath{})
	row.ToggleArchived(true, nil)

	calls := 0
	proc := ThumbnailProcessor(imagecache.New(), func(*model.RowRecord) *bookmarkdb.DB {
		calls++
		return nil
	}, nil)
	proc(context.Background(), row)

	if calls != 0 {
		t.Fatal("expected archived row to bail before touching the database")
	}
	if row.ThumbnailLoaded() {
		t.Fatal("an archived-row bail is not itself a publish of the latch")
	}
}

func TestTaskFolderProcessorCountsVisibleEntriesCapped(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "f"+string(rune('a'+i))), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	row := model.NewRow(1, 1, model.KindTaskFolder, dir, "scenes", model.ParentPath{})
	proc := TaskFolderProcessor()
	proc(context.Background(), row)

	if row.TodoCount() != 5 {
		t.Fatalf("expected 5 visible entries counted, got %d", row.TodoCount())
	}
	if !row.InfoLoaded() {
		t.Fatal("expected info_loaded latched")
	}
}

func TestPoolStartsAndStops(t *testing.T) {
	q := queue.New(queue.KindBookmark, 4)
	calls := make(chan struct{}, 1)
	pool := NewPool(nil, map[queue.Kind]struct {
		Queue   *queue.Queue
		Resolve Resolver
		Process Processor
	}{
		queue.KindBookmark: {
			Queue: q,
			Resolve: func(e queue.Entry) (*model.RowRecord, bool) {
				return model.NewRow(e.RowID, e.Generation, model.KindBookmark, "/b", "b", model.ParentPath{}), true
			},
			Process: func(context.Context, *model.RowRecord) {
				select {
				case calls <- struct{}{}:
				default:
				}
			},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	q.Add(queue.Entry{Generation: 1, RowID: 1})

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pooled worker to process an entry")
	}
	cancel()
	pool.Wait()
}
