package settingsstore

import "github.com/wgergely0/bookmarks-core/internal/model"

// activePathKeys is the ordered list of activepath/* segments. Order
// matters for ClearFrom: clearing at index i clears this key and every
// key after it.
var activePathKeys = []string{
	activePathPrefix + "server",
	activePathPrefix + "job",
	activePathPrefix + "root",
	activePathPrefix + "asset",
	activePathPrefix + "task_folder",
	activePathPrefix + "file",
}

// ActiveTuple persists the six-segment active-path tuple that the UI restores
// on launch and the active-path monitor verifies against the
// filesystem.
type ActiveTuple struct {
	store *Store
}

// NewActiveTuple wraps store with the active-path tuple convenience API.
func NewActiveTuple(store *Store) *ActiveTuple {
	return &ActiveTuple{store: store}
}

// Get reads the persisted tuple as a model.ParentPath, with File populated
// (unlike a RowRecord's ParentPath, which never carries File).
func (a *ActiveTuple) Get() model.ParentPath {
	get := func(key string) string {
		v, _ := a.store.GetString(key)
		return v
	}
	return model.ParentPath{
		Server:     get(activePathKeys[0]),
		Job:        get(activePathKeys[1]),
		Root:       get(activePathKeys[2]),
		Asset:      get(activePathKeys[3]),
		TaskFolder: get(activePathKeys[4]),
		File:       get(activePathKeys[5]),
	}
}

// Set persists p's six segments in full.
func (a *ActiveTuple) Set(p model.ParentPath) error {
	values := []string{p.Server, p.Job, p.Root, p.Asset, p.TaskFolder, p.File}
	for i, v := range values {
		if err := a.store.SetString(activePathKeys[i], v); err != nil {
			return err
		}
	}
	return nil
}

// ClearFrom clears activePathKeys[index:], used by the active-path monitor
// when a persisted segment no longer resolves on disk: everything
// from the first invalid segment onward is discarded, since a deeper segment
// is meaningless once its parent is gone.
func (a *ActiveTuple) ClearFrom(index int) error {
	for i := index; i < len(activePathKeys); i++ {
		if err := a.store.Delete(activePathKeys[i]); err != nil {
			return err
		}
	}
	return nil
}
