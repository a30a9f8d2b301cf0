// Package pathseq parses and manipulates numbered file-name sequences.
//
// Every function here is pure: no filesystem access, no global state.
// Numeric classification is purely lexical, matching the incrementable
// number closest to the end of the file stem and never the extension.
package pathseq

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Parsed is the result of splitting a file name around its incrementable
// frame number.
type Parsed struct {
	Prefix string
	Frame  string // original digit run, padding preserved
	Tail   string // everything between the frame and the extension
	Ext    string // extension without the leading dot
}

// Parse splits name around the last contiguous run of digits in its stem
// (the part before the final extension). It returns ok=false if the stem
// has no digit run at all.
func Parse(name string) (Parsed, bool) {
	stem, ext := splitExt(name)

	runes := []rune(stem)
	i := len(runes) - 1
	for i >= 0 && !unicode.IsDigit(runes[i]) {
		i--
	}
	if i < 0 {
		return Parsed{}, false
	}
	end := i + 1
	for i >= 0 && unicode.IsDigit(runes[i]) {
		i--
	}
	start := i + 1

	return Parsed{
		Prefix: string(runes[:start]),
		Frame:  string(runes[start:end]),
		Tail:   string(runes[end:]),
		Ext:    ext,
	}, true
}

// SameSequence reports whether two parsed names belong to the same sequence:
// identical prefix, tail, and extension, with any frame value.
func (p Parsed) SameSequence(other Parsed) bool {
	return p.Prefix == other.Prefix && p.Tail == other.Tail && p.Ext == other.Ext
}

// splitExt splits name into (stem, ext) on the final '.'. A leading dot
// (dotfile) or an absent dot yields an empty extension.
func splitExt(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// Collapsed describes a bracketed frame-range marker found in a path, e.g.
// ".../render.[0001-0003].exr" splits into Prefix=".../render.",
// Start="0001", End="0003", Tail=".exr".
type Collapsed struct {
	Prefix string
	Start  string
	End    string
	Tail   string
}

var collapsedRe = regexp.MustCompile(`\[([0-9]+)-([0-9]+)\]`)

// IsCollapsed tests path for a bracketed range marker anywhere in its stem.
func IsCollapsed(path string) (Collapsed, bool) {
	loc := collapsedRe.FindStringSubmatchIndex(path)
	if loc == nil {
		return Collapsed{}, false
	}
	return Collapsed{
		Prefix: path[:loc[0]],
		Start:  path[loc[2]:loc[3]],
		End:    path[loc[4]:loc[5]],
		Tail:   path[loc[1]:],
	}, true
}

// StartPath replaces path's bracketed marker with its minimum numeric
// element. It is the identity on a non-collapsed path.
func StartPath(path string) string {
	c, ok := IsCollapsed(path)
	if !ok {
		return path
	}
	return c.Prefix + c.Start + c.Tail
}

// EndPath replaces path's bracketed marker with its maximum numeric element.
// It is the identity on a non-collapsed path.
func EndPath(path string) string {
	c, ok := IsCollapsed(path)
	if !ok {
		return path
	}
	return c.Prefix + c.End + c.Tail
}

// CollapsedMarker builds the "[start-end]" marker for a sorted, padded
// frame pair, e.g. CollapsedMarker("0001", "0003") = "[0001-0003]".
func CollapsedMarker(start, end string) string {
	return "[" + start + "-" + end + "]"
}

// Ranges renders a set of integers as comma-separated hyphenated ranges,
// zero-padded to pad digits. Ranges([1,2,3,5,6,10], 3) = "001-003,005-006,010".
func Ranges(values []int, pad int) string {
	if len(values) == 0 {
		return ""
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	var parts []string
	i := 0
	for i < len(sorted) {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, pad0(sorted[i], pad))
		} else {
			parts = append(parts, pad0(sorted[i], pad)+"-"+pad0(sorted[j], pad))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

func pad0(v, pad int) string {
	return fmt.Sprintf("%0*d", pad, v)
}

// ParseRanges is the inverse of Ranges: it expands a canonical
// "001-003,005-006,010" string back into the full sorted integer slice.
func ParseRanges(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		lo, hi, found := strings.Cut(part, "-")
		a, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("pathseq: invalid range segment %q: %w", part, err)
		}
		b := a
		if found {
			b, err = strconv.Atoi(hi)
			if err != nil {
				return nil, fmt.Errorf("pathseq: invalid range segment %q: %w", part, err)
			}
		}
		for v := a; v <= b; v++ {
			out = append(out, v)
		}
	}
	return out, nil
}
