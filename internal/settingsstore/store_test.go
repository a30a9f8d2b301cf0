package settingsstore

import (
	"path/filepath"
	"testing"

	"github.com/wgergely0/bookmarks-core/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTemp(t)
	if err := s.SetString("widget/bookmarks/sortkey", "name"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInt("widget/bookmarks/rowheight", 44); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBool("widget/bookmarks/showarchived", true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetStringList("widget/bookmarks/columns", []string{"name", "size"}); err != nil {
		t.Fatal(err)
	}

	if v, ok := s.GetString("widget/bookmarks/sortkey"); !ok || v != "name" {
		t.Fatalf("got %q ok=%v", v, ok)
	}
	if v, ok := s.GetInt("widget/bookmarks/rowheight"); !ok || v != 44 {
		t.Fatalf("got %d ok=%v", v, ok)
	}
	if v, ok := s.GetBool("widget/bookmarks/showarchived"); !ok || !v {
		t.Fatalf("got %v ok=%v", v, ok)
	}
	if v, ok := s.GetStringList("widget/bookmarks/columns"); !ok || len(v) != 2 {
		t.Fatalf("got %v ok=%v", v, ok)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s1, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.SetString("k", "v"); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := s2.GetString("k"); !ok || v != "v" {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}
}

func TestSoloModeOverlayDoesNotTouchDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetString(activePathPrefix+"server", "/mnt/jobs"); err != nil {
		t.Fatal(err)
	}

	s.SetSolo(true)
	if err := s.SetString(activePathPrefix+"server", "/mnt/other"); err != nil {
		t.Fatal(err)
	}

	// The overlay sees the new value...
	if v, _ := s.GetString(activePathPrefix + "server"); v != "/mnt/other" {
		t.Fatalf("expected overlay value, got %q", v)
	}

	// ...but a fresh store re-reading the file sees the old one, since
	// solo-mode writes never reach disk.
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := s2.GetString(activePathPrefix + "server"); v != "/mnt/jobs" {
		t.Fatalf("expected disk value unaffected by solo overlay, got %q", v)
	}
}

func TestSoloModeLeavesNonActivePathKeysOnDisk(t *testing.T) {
	s := openTemp(t)
	s.SetSolo(true)
	if err := s.SetString("widget/bookmarks/sortkey", "name"); err != nil {
		t.Fatal(err)
	}
	if v, ok := s.GetString("widget/bookmarks/sortkey"); !ok || v != "name" {
		t.Fatalf("expected non-activepath key to pass through solo overlay, got %q ok=%v", v, ok)
	}
}

func TestFavouritesAddRemove(t *testing.T) {
	s := openTemp(t)
	favs := NewFavourites(s)

	if err := favs.Add("/srv/job/asset/file.ma"); err != nil {
		t.Fatal(err)
	}
	if !favs.Contains("/srv/job/asset/file.ma") {
		t.Fatal("expected favourite to be present")
	}
	// Adding twice is a no-op.
	if err := favs.Add("/srv/job/asset/file.ma"); err != nil {
		t.Fatal(err)
	}
	if len(favs.All()) != 1 {
		t.Fatalf("expected 1 favourite, got %d", len(favs.All()))
	}

	favs.Remove("/srv/job/asset/file.ma")
	if favs.Contains("/srv/job/asset/file.ma") {
		t.Fatal("expected favourite removed")
	}
}

func TestActiveTupleSetGetClearFrom(t *testing.T) {
	s := openTemp(t)
	at := NewActiveTuple(s)

	p := model.ParentPath{
		Server:     "/srv",
		Job:        "jobA",
		Root:       "assets",
		Asset:      "hero",
		TaskFolder: "scenes",
		File:       "shot010.ma",
	}
	if err := at.Set(p); err != nil {
		t.Fatal(err)
	}
	got := at.Get()
	if got != p {
		t.Fatalf("expected round-trip, got %+v", got)
	}

	if err := at.ClearFrom(3); err != nil { // clear asset onward
		t.Fatal(err)
	}
	got = at.Get()
	if got.Asset != "" || got.TaskFolder != "" || got.File != "" {
		t.Fatalf("expected asset/task_folder/file cleared, got %+v", got)
	}
	if got.Server != "/srv" || got.Job != "jobA" || got.Root != "assets" {
		t.Fatalf("expected segments before index preserved, got %+v", got)
	}
}
