package model

import (
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wgergely0/bookmarks-core/internal/pathseq"
)

// DirEntryHandle is an opaque stat/entry handle captured at scan time, so
// workers can avoid re-stat'ing the filesystem.
type DirEntryHandle struct {
	Path string
	Info fs.FileInfo
}

// SeqMatch is the parsed prefix/frame/tail/ext split for a File or Sequence
// row (see pathseq.Parsed).
type SeqMatch = pathseq.Parsed

// FavouriteSet is the minimal favourites-set surface RowRecord needs to
// enforce that archived rows cannot also be favourites without
// importing the settings-store package.
type FavouriteSet interface {
	Remove(path string)
}

// RowRecord is an in-memory record representing one visible item.
//
// Identity, classification, and scan-time fields are set once at
// construction and never mutated afterwards, so they need no locking.
// Enrichment fields, flag bits, and latches are mutated by worker
// goroutines and read by the UI/proxy; mu guards all of them. The two
// "loaded" latches additionally use atomic.Bool so a worker can publish
// with a single compare-and-swap without holding mu across the whole
// operation: the assigned worker is the only writer until the latch flips.
type RowRecord struct {
	// Identity, immutable after construction.
	ID          uint64
	Generation  uint64 // the TierData generation this row belongs to
	Path        string
	DisplayName string
	EditName    string
	ParentPath  ParentPath
	Kind        Kind

	// Sequence metadata (files/sequences only). SeqMatch, HasMatch, and
	// Frames are set at scan time; StartPath/EndPath are written once by
	// the Info worker before it publishes the info latch, and read only
	// after.
	SeqMatch  SeqMatch
	HasMatch  bool
	Frames    []string // padded frame tokens, ascending
	StartPath string
	EndPath   string

	// Directory entry handles captured at scan time.
	Entries []DirEntryHandle

	mu sync.RWMutex

	description   string
	todoCount     int
	detailsString string
	sortSize      int64
	sortMtime     time.Time
	sortName      string

	archived   bool
	favourite  bool
	active     bool
	extraFlags Flags

	infoLoaded  atomic.Bool
	thumbLoaded atomic.Bool

	thumbnailPath string
}

// Flags holds the DB-declared extra bits OR'd into a row during the Info
// pass, always including the base editable+draggable bits. These are
// independent of the archived/favourite/active flags, which are dedicated
// fields because they carry their own invariants.
type Flags uint32

const (
	FlagEditable Flags = 1 << iota
	FlagDraggable
)

// ExtraFlags returns the row's current extra-bits value.
func (r *RowRecord) ExtraFlags() Flags {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extraFlags
}

// OrExtraFlags ORs bits into the row's extra-flags field.
func (r *RowRecord) OrExtraFlags(bits Flags) {
	r.mu.Lock()
	r.extraFlags |= bits
	r.mu.Unlock()
}

// NewRow constructs a fresh RowRecord. id and generation are assigned by the
// owning TierData at scan/reset time.
func NewRow(id, generation uint64, kind Kind, path, displayName string, parent ParentPath) *RowRecord {
	return &RowRecord{
		ID:          id,
		Generation:  generation,
		Path:        path,
		DisplayName: displayName,
		EditName:    displayName,
		ParentPath:  parent,
		Kind:        kind,
		sortName:    displayName,
	}
}

// --- enrichment field accessors -------------------------------------------------

func (r *RowRecord) Description() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.description
}

func (r *RowRecord) SetDescription(v string) {
	r.mu.Lock()
	r.description = v
	r.mu.Unlock()
}

func (r *RowRecord) TodoCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.todoCount
}

func (r *RowRecord) SetTodoCount(v int) {
	r.mu.Lock()
	r.todoCount = v
	r.mu.Unlock()
}

func (r *RowRecord) DetailsString() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.detailsString
}

func (r *RowRecord) SortSize() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortSize
}

func (r *RowRecord) SortMtime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortMtime
}

func (r *RowRecord) SortName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortName
}

// SetInfo writes the full enrichment payload computed by the Info worker in
// one locked step (details string, sort fields). All writes must land
// before the info_loaded latch is published.
func (r *RowRecord) SetInfo(details string, size int64, mtime time.Time) {
	r.mu.Lock()
	r.detailsString = details
	r.sortSize = size
	r.sortMtime = mtime
	r.mu.Unlock()
}

func (r *RowRecord) SetSequenceRange(startPath, endPath string) {
	r.mu.Lock()
	r.StartPath = startPath
	r.EndPath = endPath
	r.mu.Unlock()
}

func (r *RowRecord) ThumbnailPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.thumbnailPath
}

func (r *RowRecord) SetThumbnailPath(p string) {
	r.mu.Lock()
	r.thumbnailPath = p
	r.mu.Unlock()
}

// --- flag bits ---------------------------------------------------------------

func (r *RowRecord) Archived() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.archived
}

func (r *RowRecord) Favourite() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.favourite
}

func (r *RowRecord) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// SetFavourite sets the favourite bit directly. Callers must not set it on
// an archived row (use ToggleArchived to clear favourite+archived together);
// SetFavourite refuses silently on an archived row.
func (r *RowRecord) SetFavourite(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.archived && v {
		return
	}
	r.favourite = v
}

// ToggleArchived marks a row archived; doing so clears its
// favourite bit and removes its path from the favourites set atomically
// (with respect to this row's own mutex; the favourites-set removal happens
// after the lock is released, matching the settings store's own locking).
func (r *RowRecord) ToggleArchived(archived bool, favs FavouriteSet) {
	r.mu.Lock()
	r.archived = archived
	clearedFavourite := false
	if archived && r.favourite {
		r.favourite = false
		clearedFavourite = true
	}
	path := r.Path
	r.mu.Unlock()

	if clearedFavourite && favs != nil {
		favs.Remove(path)
	}
}

func (r *RowRecord) setActive(v bool) {
	r.mu.Lock()
	r.active = v
	r.mu.Unlock()
}

// --- latches -----------------------------------------------------------------

// InfoLoaded reports whether the info latch has been published.
func (r *RowRecord) InfoLoaded() bool { return r.infoLoaded.Load() }

// PublishInfoLoaded sets the info_loaded latch exactly once (CAS); it
// returns true iff this call performed the transition. Callers must have
// completed every enrichment write before calling this.
func (r *RowRecord) PublishInfoLoaded() bool {
	return r.infoLoaded.CompareAndSwap(false, true)
}

// ThumbnailLoaded reports whether the thumbnail latch has been published.
func (r *RowRecord) ThumbnailLoaded() bool { return r.thumbLoaded.Load() }

// PublishThumbnailLoaded sets the thumbnail_loaded latch exactly once (CAS).
func (r *RowRecord) PublishThumbnailLoaded() bool {
	return r.thumbLoaded.CompareAndSwap(false, true)
}

// ResetThumbnail clears the thumbnail latch and path, used by
// the image cache when a thumbnail is deleted or replaced.
func (r *RowRecord) ResetThumbnail() {
	r.mu.Lock()
	r.thumbnailPath = ""
	r.mu.Unlock()
	r.thumbLoaded.Store(false)
}
