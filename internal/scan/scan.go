// Package scan implements the filesystem scanners that produce a tier's
// RowRecords. Each tier has its own listing rule. The recursive File-tier
// walk reads directories via f.ReadDir in chunks rather than the sorted,
// whole-directory os.ReadDir, so a single huge task folder does not spike
// peak memory; the Asset and TaskFolder listings use os.ReadDir.
package scan

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wgergely0/bookmarks-core/internal/collapse"
	"github.com/wgergely0/bookmarks-core/internal/model"
)

// readDirBatchSize bounds how many entries are buffered in memory per
// directory read.
const readDirBatchSize = 1024

// IdentifierChecker reports whether path (an asset-candidate folder)
// carries the bookmark's declared identifier marker file: a folder is an
// asset iff the marker exists under it, or always when no identifier is
// declared. Satisfied by *bookmarkdb.DB's Identifier
// lookup plus a local os.Stat, composed by the caller so this package does
// not depend on bookmarkdb.
type IdentifierChecker func(folder string) bool

// IDAllocator hands out strictly increasing row ids for one scan. Two
// independent allocators would only be needed for the File and Sequence
// projections' id space if per-projection uniqueness were required; here
// one allocator is shared because collapse.Collapse
// already calls it once per row it builds in either projection, and
// "unique within its tier+projection" only requires no two rows in the
// same projection collide, which a single monotonic counter guarantees a
// fortiori.
type IDAllocator struct{ next uint64 }

// NewIDAllocator creates an allocator starting at 1 (0 is reserved as the
// zero value / "no row").
func NewIDAllocator() *IDAllocator { return &IDAllocator{next: 1} }

// Next returns the next id and advances the allocator.
func (a *IDAllocator) Next() uint64 {
	id := a.next
	a.next++
	return id
}

func isHidden(name string) bool { return strings.HasPrefix(name, ".") }

// Assets lists immediate subfolders of parent.Join() (server/job/root) and
// classifies each as an Asset using isAsset. Despite the name, this is the
// scanner for the Bookmark tier's children; bookmarks themselves come
// from settings, not a scan.
func Assets(generation uint64, parent model.ParentPath, isAsset IdentifierChecker) ([]*model.RowRecord, error) {
	root := parent.Join()
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	alloc := NewIDAllocator()
	var rows []*model.RowRecord
	for _, e := range entries {
		if !e.IsDir() || isHidden(e.Name()) {
			continue
		}
		full := filepath.Join(root, e.Name())
		if isAsset != nil && !isAsset(full) {
			continue
		}
		assetParent := parent
		assetParent.Asset = e.Name()
		row := model.NewRow(alloc.Next(), generation, model.KindAsset, full, e.Name(), assetParent)
		rows = append(rows, row)
	}
	return rows, nil
}

// TaskFolders lists the top-level directories of an asset, skipping hidden
// entries.
func TaskFolders(generation uint64, parent model.ParentPath) ([]*model.RowRecord, error) {
	root := parent.Join()
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	alloc := NewIDAllocator()
	var rows []*model.RowRecord
	for _, e := range entries {
		if !e.IsDir() || isHidden(e.Name()) {
			continue
		}
		full := filepath.Join(root, e.Name())
		tfParent := parent
		tfParent.TaskFolder = e.Name()
		row := model.NewRow(alloc.Next(), generation, model.KindTaskFolder, full, e.Name(), tfParent)
		rows = append(rows, row)
	}
	return rows, nil
}

// IntoTier runs rowsFn (one of Assets/TaskFolders, partially applied) and
// commits the result into tier under model.NoTaskFolder, both projections
// holding the same rows since these tiers have no File/Sequence split. It
// returns false if a concurrent reset superseded this scan.
func IntoTier(tier *model.TierData, parent model.ParentPath, rowsFn func(generation uint64, parent model.ParentPath) ([]*model.RowRecord, error)) (bool, error) {
	generation := tier.BeginReset()
	rows, err := rowsFn(generation, parent)
	if err != nil {
		return false, err
	}
	committed := tier.Commit(generation, parent, map[string]*model.Projections{
		model.NoTaskFolder: {Files: rows, Sequences: rows},
	})
	return committed, nil
}

// FilesIntoTier scans the File tier for one task folder and commits both
// projections.
func FilesIntoTier(tier *model.TierData, parent model.ParentPath) (bool, error) {
	generation := tier.BeginReset()
	proj, err := Files(generation, parent)
	if err != nil {
		return false, err
	}
	key := parent.TaskFolder
	if key == "" {
		key = model.NoTaskFolder
	}
	committed := tier.Commit(generation, parent, map[string]*model.Projections{key: proj})
	return committed, nil
}

// Files recursively walks parent's task folder, skipping hidden entries and
// symlinks, captures a DirEntryHandle per file, and collapses the flat
// result into the File and Sequence projections in one pass via
// internal/collapse. generation is stamped onto every row built from this
// scan.
func Files(generation uint64, parent model.ParentPath) (*model.Projections, error) {
	root := parent.Join()
	entries, err := walk(root)
	if err != nil {
		return nil, err
	}
	alloc := NewIDAllocator()
	return collapse.Collapse(generation, parent, entries, alloc.Next), nil
}

// walk performs the recursive, hidden/symlink-skipping directory walk and
// returns every regular file found, stat'd once so workers never need to
// re-stat.
func walk(root string) ([]collapse.Entry, error) {
	var out []collapse.Entry
	var visit func(dir string) error
	visit = func(dir string) error {
		f, err := os.Open(dir)
		if err != nil {
			return err
		}
		defer f.Close()

		for {
			batch, err := f.ReadDir(readDirBatchSize)
			if len(batch) == 0 && err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			for _, e := range batch {
				if isHidden(e.Name()) {
					continue
				}
				if e.Type()&fs.ModeSymlink != 0 {
					continue
				}
				full := filepath.Join(dir, e.Name())
				if e.IsDir() {
					if werr := visit(full); werr != nil {
						return werr
					}
					continue
				}
				info, ierr := e.Info()
				if ierr != nil {
					continue
				}
				out = append(out, collapse.Entry{
					Path: full,
					Name: e.Name(),
					DirEntryHandle: model.DirEntryHandle{
						Path: full,
						Info: info,
					},
				})
			}
			if len(batch) < readDirBatchSize {
				return nil
			}
		}
	}
	if err := visit(root); err != nil {
		return nil, err
	}
	// Deterministic order makes tests reproducible; the UI re-sorts via the
	// proxy anyway, so this ordering has no semantic weight.
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Favourites builds rows for an explicit set of absolute paths: the
// favourites set is the source of truth, independent of bookmark topology.
// Missing paths are skipped rather than erroring, since a stale favourite
// pointing at a deleted file is a normal, expected state.
func Favourites(generation uint64, paths []string) *model.Projections {
	alloc := NewIDAllocator()
	out := &model.Projections{}
	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			continue
		}
		name := filepath.Base(p)
		row := model.NewRow(alloc.Next(), generation, model.KindFile, p, name, model.ParentPath{})
		row.Entries = []model.DirEntryHandle{{Path: p, Info: info}}
		out.Files = append(out.Files, row)
		out.Sequences = append(out.Sequences, row)
	}
	return out
}
