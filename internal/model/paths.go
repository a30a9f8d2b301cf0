// Package model defines the in-memory row records and per-tier data map
// that the enrichment workers and the sort/filter proxy operate over.
package model

import "strings"

// Kind classifies a RowRecord's place in the four-tier hierarchy.
type Kind int

const (
	KindBookmark Kind = iota
	KindAsset
	KindTaskFolder
	KindFile
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindBookmark:
		return "bookmark"
	case KindAsset:
		return "asset"
	case KindTaskFolder:
		return "task_folder"
	case KindFile:
		return "file"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Tier names one of the five visible tiers.
type Tier int

const (
	TierBookmarks Tier = iota
	TierAssets
	TierTaskFolders
	TierFiles
	TierFavourites
)

// NoTaskFolder is the data-key used by tiers without a folder axis
// (Bookmarks, Assets, Favourites).
const NoTaskFolder = "."

// ParentPath is the ordered tuple identifying a row's place in the hierarchy.
// Server is a mount root (UNC or local); every other element is a single
// path segment.
type ParentPath struct {
	Server     string
	Job        string
	Root       string
	Asset      string
	TaskFolder string
	// File is only meaningful for the active-path tuple; RowRecord's
	// ParentPath never carries it; a File/Sequence row's identity is its
	// DisplayName plus this ParentPath.
	File string
}

// Join renders the populated prefix of the tuple as forward-slash segments.
func (p ParentPath) Join() string {
	segs := make([]string, 0, 6)
	for _, s := range []string{p.Server, p.Job, p.Root, p.Asset, p.TaskFolder} {
		if s == "" {
			break
		}
		segs = append(segs, s)
	}
	return strings.Join(segs, "/")
}

// HasPrefix reports whether p's populated segments are a prefix of other's,
// in order (server, job, root, asset, task_folder). Every RowRecord's
// ParentPath prefix must equal the owning tier's parent.
func (p ParentPath) HasPrefix(other ParentPath) bool {
	fields := func(pp ParentPath) [5]string {
		return [5]string{pp.Server, pp.Job, pp.Root, pp.Asset, pp.TaskFolder}
	}
	a, b := fields(p), fields(other)
	for i := range a {
		if a[i] == "" {
			return true
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
