package model

import "sync"

// Projection selects one of the two co-resident views over a tier's scan:
// the per-file projection or the per-sequence projection.
type Projection int

const (
	ProjectionFile Projection = iota
	ProjectionSequence
)

// Projections holds one data-key's two sibling row slices. Order is
// insertion order, i.e. the order the scanner or collapser appended rows.
type Projections struct {
	Files     []*RowRecord
	Sequences []*RowRecord
}

func (p *Projections) slice(proj Projection) []*RowRecord {
	if proj == ProjectionSequence {
		return p.Sequences
	}
	return p.Files
}

// TierData is the per-tier data map: task_folder -> {FileItem, SequenceItem}
// rows. It is owned by the UI/controller goroutine; workers only mutate
// individual RowRecord fields, never the map itself, and validate their
// target row's generation before publishing.
type TierData struct {
	mu         sync.RWMutex
	generation uint64
	parent     ParentPath
	byFolder   map[string]*Projections
}

// NewTierData creates an empty tier with generation 0 (no rows yet).
func NewTierData() *TierData {
	return &TierData{byFolder: make(map[string]*Projections)}
}

// Generation returns the tier's current generation number.
func (t *TierData) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// BeginReset allocates the next generation number without installing any
// data yet. Callers build new RowRecords stamped with this generation
// (outside any lock, e.g. during a filesystem scan) and then call Commit to
// install them atomically. Calling BeginReset twice without a matching
// Commit in between simply burns a generation number, which is harmless:
// the stale in-flight build's eventual Commit will be rejected because its
// generation no longer matches.
func (t *TierData) BeginReset() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	return t.generation
}

// Commit atomically replaces the tier's data map iff generation still
// matches the tier's current generation (i.e. no newer reset has started
// since BeginReset returned it). It returns false if the commit was
// superseded, in which case the caller's freshly-built rows are simply
// discarded. This is how a reset invalidates in-flight worker output.
func (t *TierData) Commit(generation uint64, parent ParentPath, byFolder map[string]*Projections) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if generation != t.generation {
		return false
	}
	t.parent = parent
	t.byFolder = byFolder
	return true
}

// Lookup resolves a row by (generation, id), returning ok=false if the row
// belongs to a superseded generation or does not exist. Workers must call
// this before publishing any field; holding a direct pointer across a yield
// point would let a stale write land after a reset.
func (t *TierData) Lookup(generation, id uint64) (*RowRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if generation != t.generation {
		return nil, false
	}
	for _, p := range t.byFolder {
		for _, r := range p.Files {
			if r.ID == id {
				return r, true
			}
		}
		for _, r := range p.Sequences {
			if r.ID == id {
				return r, true
			}
		}
	}
	return nil, false
}

// Rows returns the ordered rows for one data-key and projection. The
// returned slice is a snapshot copy; mutating it does not affect the tier.
func (t *TierData) Rows(taskFolder string, proj Projection) []*RowRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.byFolder[taskFolder]
	if !ok {
		return nil
	}
	src := p.slice(proj)
	out := make([]*RowRecord, len(src))
	copy(out, src)
	return out
}

// AllRows returns every row across every data-key for one projection, in
// data-key then insertion order.
func (t *TierData) AllRows(proj Projection) []*RowRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*RowRecord
	for _, p := range t.byFolder {
		out = append(out, p.slice(proj)...)
	}
	return out
}

// ActiveRow returns the single active row for a projection within this
// tier, if any.
func (t *TierData) ActiveRow(proj Projection) (*RowRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.byFolder {
		for _, r := range p.slice(proj) {
			if r.Active() {
				return r, true
			}
		}
	}
	return nil, false
}

// Activate enforces activation uniqueness: at most one row per tier may
// carry active. It
// clears the bit on any previously active row in this projection and sets
// it on rowID, returning the newly active row.
func (t *TierData) Activate(proj Projection, rowID uint64) (*RowRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var target *RowRecord
	for _, p := range t.byFolder {
		for _, r := range p.slice(proj) {
			if r.ID == rowID {
				target = r
			}
		}
	}
	if target == nil {
		return nil, false
	}
	for _, p := range t.byFolder {
		for _, r := range p.slice(proj) {
			if r.ID != rowID && r.Active() {
				r.setActive(false)
			}
		}
	}
	target.setActive(true)
	return target, true
}

// Parent returns the tier's current scan parent path.
func (t *TierData) Parent() ParentPath {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.parent
}
