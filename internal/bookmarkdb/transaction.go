package bookmarkdb

import (
	"fmt"

	"go.etcd.io/bbolt"
)

// Txn batches field writes for one entity against one bbolt transaction.
// Enrichment workers open one scope per row and close it before publishing
// info_loaded. Txn is not safe for concurrent use.
type Txn struct {
	db        *DB
	entityKey string
	pending   map[string]any
}

// Transaction opens a batching scope for entityKey. Call Commit to flush,
// or Discard to abandon the pending writes.
func (d *DB) Transaction(entityKey string) *Txn {
	return &Txn{db: d, entityKey: entityKey, pending: make(map[string]any)}
}

// Set stages field=value for write on Commit. Values may be string, bool,
// int64, or any JSON-marshallable type for opaque blobs (e.g. the notes
// payload).
func (t *Txn) Set(field string, value any) {
	t.pending[field] = value
}

// Get reads field, checking this transaction's staged writes before
// falling through to the committed value, so a worker can read-modify-write
// within one scope.
func (t *Txn) Get(field string) (any, bool) {
	if v, ok := t.pending[field]; ok {
		return v, true
	}
	return t.db.Value(t.entityKey, field)
}

// Commit flushes every staged field in a single bbolt write transaction.
func (t *Txn) Commit() error {
	if len(t.pending) == 0 {
		return nil
	}
	err := t.db.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketFields))
		for field, value := range t.pending {
			raw, err := encodeValue(value)
			if err != nil {
				return fmt.Errorf("encoding field %q: %w", field, err)
			}
			if err := b.Put(fieldKey(t.entityKey, field), raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bookmarkdb: committing transaction for %q: %w", t.entityKey, err)
	}
	t.pending = make(map[string]any)
	return nil
}

// Discard drops every staged write without touching the database.
func (t *Txn) Discard() {
	t.pending = make(map[string]any)
}
