package activepath

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wgergely0/bookmarks-core/internal/model"
)

type fakeTuple struct {
	t       model.ParentPath
	cleared int
}

func (f *fakeTuple) Get() model.ParentPath { return f.t }
func (f *fakeTuple) Set(p model.ParentPath) error {
	f.t = p
	return nil
}
func (f *fakeTuple) ClearFrom(index int) error {
	f.cleared = index
	segs := []*string{&f.t.Server, &f.t.Job, &f.t.Root, &f.t.Asset, &f.t.TaskFolder, &f.t.File}
	for i := index; i < len(segs); i++ {
		*segs[i] = ""
	}
	return nil
}

func TestVerifyPrunesFirstMissingSegment(t *testing.T) {
	tuple := &fakeTuple{t: model.ParentPath{
		Server: "/mnt/x", Job: "foo", Root: "assets", Asset: "x", TaskFolder: "scenes", File: "y.ma",
	}}
	exists := map[string]bool{
		"/mnt/x":            true,
		"/mnt/x/foo":        true,
		"/mnt/x/foo/assets": false,
	}
	m := New(tuple)
	m.exists = func(p string) bool { return exists[p] }

	result, err := m.Verify()
	if err != nil {
		t.Fatal(err)
	}
	if result.Server != "/mnt/x" || result.Job != "foo" {
		t.Fatalf("expected server+job to survive, got %+v", result)
	}
	if result.Root != "" || result.Asset != "" || result.TaskFolder != "" || result.File != "" {
		t.Fatalf("expected everything from root onward cleared, got %+v", result)
	}
	if tuple.cleared != segRoot {
		t.Fatalf("expected ClearFrom(segRoot), got %d", tuple.cleared)
	}
}

func TestVerifyFullyValidTupleUntouched(t *testing.T) {
	tuple := &fakeTuple{t: model.ParentPath{Server: "/mnt/x", Job: "foo"}}
	m := New(tuple)
	m.exists = func(string) bool { return true }

	result, err := m.Verify()
	if err != nil {
		t.Fatal(err)
	}
	if result != tuple.t {
		t.Fatalf("expected unchanged tuple, got %+v", result)
	}
}

func TestVerifyEmptyTupleIsLegal(t *testing.T) {
	tuple := &fakeTuple{}
	m := New(tuple)
	m.exists = func(string) bool { return true }

	result, err := m.Verify()
	if err != nil {
		t.Fatal(err)
	}
	if result != (model.ParentPath{}) {
		t.Fatalf("expected empty tuple, got %+v", result)
	}
}

func TestWatchReVerifiesOnFilesystemChange(t *testing.T) {
	root := t.TempDir()
	jobDir := filepath.Join(root, "job")
	if err := os.Mkdir(jobDir, 0o755); err != nil {
		t.Fatal(err)
	}

	tuple := &fakeTuple{t: model.ParentPath{Server: root, Job: "job"}}
	m := New(tuple)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan model.ParentPath, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Watch(ctx, func(p model.ParentPath) {
			select {
			case changes <- p:
			default:
			}
		})
	}()

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial verify")
	}

	if err := os.WriteFile(filepath.Join(jobDir, "touch"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changes:
		if p.Job != "job" {
			t.Fatalf("expected tuple to remain valid, got %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for re-verify after fs event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after context cancellation")
	}
}
