package favexport

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	thumbPath := filepath.Join(dir, "thumb-a.png")
	if err := os.WriteFile(thumbPath, []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths := []string{"/srv/job/assetA/a.ma", "/srv/job/assetB/b.ma"}
	lookup := func(p string) (string, bool) {
		if p == paths[0] {
			return thumbPath, true
		}
		return "", false
	}

	var buf bytes.Buffer
	if err := Export(&buf, paths, lookup); err != nil {
		t.Fatal(err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}

	destDir := filepath.Join(dir, "imported")
	res, err := Import(zr, destDir)
	if err != nil {
		t.Fatal(err)
	}

	sort.Strings(res.Paths)
	wantPaths := append([]string(nil), paths...)
	sort.Strings(wantPaths)
	if len(res.Paths) != len(wantPaths) {
		t.Fatalf("expected %v, got %v", wantPaths, res.Paths)
	}
	for i := range wantPaths {
		if res.Paths[i] != wantPaths[i] {
			t.Fatalf("expected %v, got %v", wantPaths, res.Paths)
		}
	}

	if len(res.ExtractedFiles) != 1 {
		t.Fatalf("expected exactly one extracted thumbnail, got %d", len(res.ExtractedFiles))
	}
	data, err := os.ReadFile(res.ExtractedFiles[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected thumbnail contents: %q", data)
	}
}

func TestImportRejectsArchiveWithoutManifest(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("not-favourites")
	zw.Close()

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Import(zr, t.TempDir()); err == nil {
		t.Fatal("expected an error for a manifest-less archive")
	}
}
