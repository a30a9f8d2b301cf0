package settingsstore

import "sort"

const favouritesKey = "favourites"

// Favourites is a write-through set of favourited paths persisted under a
// single list key. It satisfies model.FavouriteSet so that archiving a row
// (model.RowRecord.ToggleArchived) can clear a path here
// without model importing settingsstore.
type Favourites struct {
	store *Store
}

// NewFavourites wraps store with the favourites-set convenience API.
func NewFavourites(store *Store) *Favourites {
	return &Favourites{store: store}
}

// All returns every favourited path, sorted.
func (f *Favourites) All() []string {
	list, _ := f.store.GetStringList(favouritesKey)
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}

// Contains reports whether path is favourited.
func (f *Favourites) Contains(path string) bool {
	list, _ := f.store.GetStringList(favouritesKey)
	for _, p := range list {
		if p == path {
			return true
		}
	}
	return false
}

// Add favourites path, a no-op if already present.
func (f *Favourites) Add(path string) error {
	list, _ := f.store.GetStringList(favouritesKey)
	for _, p := range list {
		if p == path {
			return nil
		}
	}
	return f.store.SetStringList(favouritesKey, append(list, path))
}

// Remove un-favourites path, a no-op if absent. This is the method
// model.FavouriteSet requires.
func (f *Favourites) Remove(path string) {
	list, _ := f.store.GetStringList(favouritesKey)
	out := list[:0:0]
	for _, p := range list {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) != len(list) {
		_ = f.store.SetStringList(favouritesKey, out)
	}
}
