// Package activepath implements the active-path monitor: on startup or on
// demand, it walks the persisted (server, job, root, asset, task_folder,
// file) tuple, testing each segment's accumulated path for existence, and
// clears the first missing segment plus every segment after it in the
// settings store.
package activepath

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/pathseq"
)

// Tuple is the settings-store surface the monitor needs: read the
// persisted tuple and clear it from a given segment index onward. This is
// satisfied by *settingsstore.ActiveTuple without activepath importing
// settingsstore directly.
type Tuple interface {
	Get() model.ParentPath
	Set(model.ParentPath) error
	ClearFrom(index int) error
}

// segment names one of the six ordered tuple positions, matching
// activePathKeys in internal/settingsstore.
const (
	segServer = iota
	segJob
	segRoot
	segAsset
	segTaskFolder
	segFile
)

// statFunc abstracts filesystem existence checks for tests.
type statFunc func(path string) bool

func defaultExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Monitor validates and prunes a persisted active tuple against the
// filesystem.
type Monitor struct {
	tuple  Tuple
	exists statFunc
}

// New creates a Monitor backed by tuple, using the real filesystem.
func New(tuple Tuple) *Monitor {
	return &Monitor{tuple: tuple, exists: defaultExists}
}

// Verify walks the persisted tuple segment by segment, accumulating a path
// prefix. The first segment whose accumulated path does not exist (with
// collapsed-to-start expansion for the file segment) and every
// segment after it are cleared in the settings store. It returns the
// resulting valid prefix (an empty tuple is legal).
func (m *Monitor) Verify() (model.ParentPath, error) {
	t := m.tuple.Get()
	segments := []string{t.Server, t.Job, t.Root, t.Asset, t.TaskFolder, t.File}

	var acc string
	firstMissing := -1
	for i, seg := range segments {
		if seg == "" {
			firstMissing = i
			break
		}
		var candidate string
		if i == segServer {
			candidate = seg
		} else {
			candidate = filepath.Join(acc, seg)
		}

		probe := candidate
		if i == segFile {
			// A file segment may itself be a collapsed sequence marker;
			// test existence against its expanded start path.
			probe = pathseq.StartPath(candidate)
		}
		if !m.exists(probe) {
			firstMissing = i
			break
		}
		acc = candidate
	}

	if firstMissing == -1 {
		return t, nil
	}

	cleared := segments
	for i := firstMissing; i < len(cleared); i++ {
		cleared[i] = ""
	}
	result := model.ParentPath{
		Server:     cleared[segServer],
		Job:        cleared[segJob],
		Root:       cleared[segRoot],
		Asset:      cleared[segAsset],
		TaskFolder: cleared[segTaskFolder],
		File:       cleared[segFile],
	}
	if err := m.tuple.ClearFrom(firstMissing); err != nil {
		return result, err
	}
	return result, nil
}

// watchDebounce coalesces bursts of filesystem events (a rename typically
// fires as several events in quick succession) before re-verifying.
const watchDebounce = 200 * time.Millisecond

// Watch runs until ctx is cancelled, re-running Verify whenever any
// ancestor directory of the persisted tuple changes on disk, and reporting
// the resulting (possibly pruned) tuple to onChange. A single fsnotify
// watcher is kept pointed at the tuple's currently-valid directory
// segments; Watch re-arms it after every verify pass since pruning can
// change which directories exist to watch.
func (m *Monitor) Watch(ctx context.Context, onChange func(model.ParentPath)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	rearm := func() (model.ParentPath, error) {
		t, err := m.Verify()
		if err != nil {
			return t, err
		}
		for _, w := range watcher.WatchList() {
			_ = watcher.Remove(w)
		}
		for _, dir := range ancestorDirs(t) {
			if err := watcher.Add(dir); err != nil {
				slog.Debug("activepath: cannot watch directory", "path", dir, "err", err)
			}
		}
		return t, nil
	}

	current, err := rearm()
	if err != nil {
		return err
	}
	onChange(current)

	var debounce *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("activepath: watcher error", "err", err)
		case <-fire:
			next, err := rearm()
			if err != nil {
				slog.Warn("activepath: re-verify failed", "err", err)
				continue
			}
			onChange(next)
		}
	}
}

// ancestorDirs returns the existing directories along t's populated prefix,
// shallowest first, for Watch to arm fsnotify against.
func ancestorDirs(t model.ParentPath) []string {
	segments := []string{t.Server, t.Job, t.Root, t.Asset, t.TaskFolder}
	var acc string
	var dirs []string
	for _, seg := range segments {
		if seg == "" {
			break
		}
		if acc == "" {
			acc = seg
		} else {
			acc = filepath.Join(acc, seg)
		}
		dirs = append(dirs, acc)
	}
	return dirs
}
