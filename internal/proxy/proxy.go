// Package proxy implements the stateless sort/filter proxy: it holds
// its own sort key, sort order, and flag/text filters, and projects a
// filtered, sorted view over a source row slice without ever mutating the
// rows themselves.
package proxy

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/wgergely0/bookmarks-core/internal/model"
)

// SortKey selects which field View orders by.
type SortKey int

const (
	SortByName SortKey = iota
	SortByLastModified
	SortBySize
)

// FlagFilters are the three independent visibility bits.
type FlagFilters struct {
	// Active, when set, shows only the tier's active row.
	Active bool
	// Favourite, when set, hides rows lacking the favourite bit.
	Favourite bool
	// Archived, when set, shows archived rows; when clear, archived rows
	// are hidden.
	Archived bool
}

// Proxy is stateless over the source data it is given at View time; all of
// its own state is the sort/filter configuration.
type Proxy struct {
	sortKey          SortKey
	ascending        bool
	textFilter       string
	flags            FlagFilters
	sortWithBasename bool
}

// New creates a proxy defaulting to ascending Name order with no filters.
func New() *Proxy {
	return &Proxy{sortKey: SortByName, ascending: true}
}

func (p *Proxy) SetSortKey(k SortKey)         { p.sortKey = k }
func (p *Proxy) SortKey() SortKey             { return p.sortKey }
func (p *Proxy) SetAscending(asc bool)        { p.ascending = asc }
func (p *Proxy) Ascending() bool              { return p.ascending }
func (p *Proxy) SetFlagFilters(f FlagFilters) { p.flags = f }
func (p *Proxy) FlagFilters() FlagFilters     { return p.flags }

// SetTextFilter sets the case-insensitive substring filter. "" and "/" both
// mean "no filter".
func (p *Proxy) SetTextFilter(s string) { p.textFilter = s }
func (p *Proxy) TextFilter() string     { return p.textFilter }

// SetSortWithBasename toggles whether the Name key compares basenames
// instead of full, depth-weighted paths
// (widget/<class>/sort_with_basename).
func (p *Proxy) SetSortWithBasename(v bool) { p.sortWithBasename = v }

// View returns a filtered, stably-sorted copy of rows; rows and their
// fields are never mutated.
func (p *Proxy) View(rows []*model.RowRecord) []*model.RowRecord {
	filtered := make([]*model.RowRecord, 0, len(rows))
	for _, r := range rows {
		if p.accepts(r) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return p.less(filtered[i], filtered[j])
	})
	return filtered
}

func (p *Proxy) accepts(r *model.RowRecord) bool {
	if p.flags.Active && !r.Active() {
		return false
	}
	if p.flags.Favourite && !r.Favourite() {
		return false
	}
	if !p.flags.Archived && r.Archived() {
		return false
	}
	if f := p.textFilter; f != "" && f != "/" {
		status := r.DisplayName + " " + r.DetailsString()
		if !strings.Contains(strings.ToLower(status), strings.ToLower(f)) {
			return false
		}
	}
	return true
}

func (p *Proxy) less(a, b *model.RowRecord) bool {
	var cmp int
	switch p.sortKey {
	case SortByLastModified:
		ta, tb := a.SortMtime(), b.SortMtime()
		switch {
		case ta.Before(tb):
			cmp = -1
		case ta.After(tb):
			cmp = 1
		default:
			cmp = 0
		}
	case SortBySize:
		sa, sb := a.SortSize(), b.SortSize()
		switch {
		case sa < sb:
			cmp = -1
		case sa > sb:
			cmp = 1
		default:
			cmp = 0
		}
	default:
		cmp = compareRuns(nameKey(a.Path, p.sortWithBasename), nameKey(b.Path, p.sortWithBasename))
	}
	if p.ascending {
		return cmp < 0
	}
	return cmp > 0
}

// run is one component of a name sort key: either a parsed integer (a
// contiguous digit run) or a literal string (a contiguous non-digit run).
type run struct {
	isNum bool
	num   int
	str   string
}

// nameKey builds the per-component, numeric-aware, depth-weighted sort
// key: a leading run of "Ω" characters (one per path-segment
// depth level) orders shallower paths before deeper ones sharing a prefix,
// without the proxy ever materialising or comparing actual path segments.
func nameKey(path string, sortWithBasename bool) []run {
	s := path
	if sortWithBasename {
		parts := strings.Split(path, "/")
		s = parts[len(parts)-1]
	} else {
		depth := len(strings.Split(strings.Trim(path, "/"), "/"))
		s = strings.Repeat("Ω", depth) + path
	}
	return splitRuns(s)
}

func splitRuns(s string) []run {
	runes := []rune(s)
	n := len(runes)
	var out []run
	i := 0
	for i < n {
		if unicode.IsDigit(runes[i]) {
			j := i
			for j < n && unicode.IsDigit(runes[j]) {
				j++
			}
			v, _ := strconv.Atoi(string(runes[i:j]))
			out = append(out, run{isNum: true, num: v})
			i = j
			continue
		}
		j := i
		for j < n && !unicode.IsDigit(runes[j]) {
			j++
		}
		out = append(out, run{str: string(runes[i:j])})
		i = j
	}
	return out
}

// compareRuns orders two name keys component-wise. Numbers compare
// numerically, strings lexicographically; a number always sorts before a
// string at a position where the two keys disagree on kind, and a key that
// is a strict prefix of the other sorts first.
func compareRuns(a, b []run) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ra, rb := a[i], b[i]
		switch {
		case ra.isNum && rb.isNum:
			if ra.num != rb.num {
				if ra.num < rb.num {
					return -1
				}
				return 1
			}
		case !ra.isNum && !rb.isNum:
			if ra.str != rb.str {
				return strings.Compare(ra.str, rb.str)
			}
		case ra.isNum:
			return -1
		default:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
