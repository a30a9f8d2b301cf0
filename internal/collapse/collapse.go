// Package collapse implements the sequence-collapse transform: given a
// flat filesystem scan, it produces the two co-resident File and Sequence
// projections in a single pass, grouping entries by parsed frame key rather
// than re-walking the source set once per projection.
package collapse

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/pathseq"
)

// Entry is one scanned filesystem item, already stat'd by the caller's
// scanner.
type Entry struct {
	Path string
	Name string
	model.DirEntryHandle
}

// IDGenerator hands out stable, strictly increasing row ids for one tier
// generation.
type IDGenerator func() uint64

// Collapse groups entries by parsed (prefix, tail, ext), and returns the
// File and Sequence projections for one task-folder. In both projections the
// loose (unparseable) entries come first, in scan order, followed by the
// parsed groups in the order each group's first member was scanned.
// The File projection always holds one row per entry; the Sequence
// projection holds one Sequence row per group with two or more distinct
// frames and one File row per loose or single-frame entry. These are
// distinct RowRecord objects from the File projection's: the two projections
// are enriched independently and carry different detail strings for the
// same underlying file.
func Collapse(generation uint64, parent model.ParentPath, entries []Entry, nextID IDGenerator) *model.Projections {
	type group struct {
		prefix, tail, ext string
		frameToInt        map[string]int
		members           []Entry
		parsed            map[string]pathseq.Parsed // member Path -> its parse
	}

	groups := make(map[string]*group)
	var groupOrder []string
	var loose []Entry

	for _, e := range entries {
		parsed, ok := pathseq.Parse(e.Name)
		if !ok {
			loose = append(loose, e)
			continue
		}
		key := strings.ToLower(parsed.Prefix) + "\x00" + strings.ToLower(parsed.Tail) + "\x00" + strings.ToLower(parsed.Ext)
		g, exists := groups[key]
		if !exists {
			g = &group{prefix: parsed.Prefix, tail: parsed.Tail, ext: parsed.Ext, frameToInt: make(map[string]int), parsed: make(map[string]pathseq.Parsed)}
			groups[key] = g
			groupOrder = append(groupOrder, key)
		}
		if n, err := strconv.Atoi(parsed.Frame); err == nil {
			g.frameToInt[parsed.Frame] = n
		}
		g.parsed[e.Path] = parsed
		g.members = append(g.members, e)
	}

	out := &model.Projections{}

	for _, e := range loose {
		out.Files = append(out.Files, buildFileRow(generation, parent, e, nextID()))
		out.Sequences = append(out.Sequences, buildFileRow(generation, parent, e, nextID()))
	}

	for _, key := range groupOrder {
		g := groups[key]
		for _, e := range g.members {
			row := buildFileRow(generation, parent, e, nextID())
			if parsed, ok := g.parsed[e.Path]; ok {
				row.SeqMatch = parsed
				row.HasMatch = true
			}
			out.Files = append(out.Files, row)
		}

		distinctFrames := distinctSortedFrames(g.frameToInt)
		if len(distinctFrames) >= 2 {
			out.Sequences = append(out.Sequences, buildSequenceRow(generation, parent, g.prefix, g.tail, g.ext, g.members, distinctFrames, nextID()))
		} else {
			// Single-frame group: rewritten back to a File row.
			for _, e := range g.members {
				row := buildFileRow(generation, parent, e, nextID())
				if parsed, ok := g.parsed[e.Path]; ok {
					row.SeqMatch = parsed
					row.HasMatch = true
				}
				out.Sequences = append(out.Sequences, row)
			}
		}
	}

	return out
}

func distinctSortedFrames(frameToInt map[string]int) []string {
	type pair struct {
		token string
		n     int
	}
	pairs := make([]pair, 0, len(frameToInt))
	for tok, n := range frameToInt {
		pairs = append(pairs, pair{tok, n})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].n < pairs[j].n })

	out := make([]string, 0, len(pairs))
	seen := make(map[int]bool)
	for _, p := range pairs {
		if seen[p.n] {
			continue
		}
		seen[p.n] = true
		out = append(out, p.token)
	}
	return out
}

func buildFileRow(generation uint64, parent model.ParentPath, e Entry, id uint64) *model.RowRecord {
	row := model.NewRow(id, generation, model.KindFile, e.Path, e.Name, parent)
	row.Entries = []model.DirEntryHandle{e.DirEntryHandle}
	return row
}

func buildSequenceRow(generation uint64, parent model.ParentPath, prefix, tail, ext string, members []Entry, frames []string, id uint64) *model.RowRecord {
	name := prefix + pathseq.CollapsedMarker(frames[0], frames[len(frames)-1]) + tail
	if ext != "" {
		name += "." + ext
	}
	// The row's Path (not just its DisplayName) must carry the bracketed
	// marker: pathseq.StartPath/EndPath expand it back to a concrete member
	// path, and both the Thumbnail and Info workers resolve a sequence's
	// source through that expansion.
	collapsedPath := filepath.Join(filepath.Dir(members[0].Path), name)
	row := model.NewRow(id, generation, model.KindSequence, collapsedPath, name, parent)
	row.HasMatch = true
	row.Frames = frames
	entries := make([]model.DirEntryHandle, 0, len(members))
	for _, m := range members {
		entries = append(entries, m.DirEntryHandle)
	}
	row.Entries = entries
	return row
}
