// Package bookmarkdb implements the per-bookmark key/value store: a small
// embedded database, one file per bookmark, holding per-entity fields
// (description, notes, flags) plus a deterministic thumbnail-path
// derivation. The on-disk engine is go.etcd.io/bbolt.
package bookmarkdb

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/wgergely0/bookmarks-core/internal/assetbrowser/errs"
)

// Bucket names. "properties" holds the bookmark-level identifier-marker
// row; "fields" holds every other per-entity field, keyed
// "<entity_key>\x00<field>".
const (
	bucketProperties = "properties"
	bucketFields     = "fields"
)

// DB wraps one bookmark's bbolt file. An entity key is the row's identity
// string, typically its filesystem path.
type DB struct {
	bolt     *bbolt.DB
	root     string // bookmark root, used to derive ThumbnailPath
	thumbDir string
}

// Open opens (creating if absent) the bbolt file for a bookmark rooted at
// root. thumbDir is the writable directory thumbnails are derived into,
// typically root + "/.bookmark/thumbnails".
func Open(path, root, thumbDir string) (*DB, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("bookmarkdb: bookmark root %s: %w: %w", root, errs.NotFound, err)
	}
	bdb, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bookmarkdb: opening %s: %w", path, err)
	}
	err = bdb.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketProperties)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketFields))
		return err
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("bookmarkdb: initialising buckets: %w", err)
	}
	return &DB{bolt: bdb, root: root, thumbDir: thumbDir}, nil
}

// Close releases the underlying bbolt file.
func (d *DB) Close() error { return d.bolt.Close() }

func fieldKey(entityKey, field string) []byte {
	return []byte(entityKey + "\x00" + field)
}

// Value reads field for entityKey, returning ok=false if unset. A string,
// bool, or int/int64 stored by Set decodes back as string, bool, or int64;
// any other value decodes as its generic JSON form (a []byte comes back as
// its base64 string). The notes payload is stored and read as a string.
func (d *DB) Value(entityKey, field string) (any, bool) {
	var raw []byte
	_ = d.bolt.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketFields))
		v := b.Get(fieldKey(entityKey, field))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return nil, false
	}
	var wrapped wireValue
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, false
	}
	return wrapped.decode(), true
}

// wireValue is the tagged envelope fields are marshalled under, so Value can
// recover the original Go type on read.
type wireValue struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func (w wireValue) decode() any {
	switch w.Kind {
	case "string":
		var s string
		_ = json.Unmarshal(w.Data, &s)
		return s
	case "bool":
		var b bool
		_ = json.Unmarshal(w.Data, &b)
		return b
	case "int64":
		var n int64
		_ = json.Unmarshal(w.Data, &n)
		return n
	default:
		var v any
		_ = json.Unmarshal(w.Data, &v)
		return v
	}
}

func encodeValue(v any) ([]byte, error) {
	kind := "json"
	switch v.(type) {
	case string:
		kind = "string"
	case bool:
		kind = "bool"
	case int, int64:
		kind = "int64"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Kind: kind, Data: data})
}

// Identifier returns the optional marker filename declared under
// table="properties", row 1, field "identifier", used by the scanner to
// recognise asset folders.
func (d *DB) Identifier() (string, bool) {
	var raw []byte
	_ = d.bolt.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketProperties))
		v := b.Get(identifierKey())
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if raw == nil {
		return "", false
	}
	return string(raw), true
}

func identifierKey() []byte {
	return []byte("1\x00identifier")
}

// SetIdentifier persists the marker filename outside of a Transactions
// scope, since it is configuration rather than per-row enrichment data.
func (d *DB) SetIdentifier(name string) error {
	return d.bolt.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketProperties))
		return b.Put(identifierKey(), []byte(name))
	})
}

// ThumbnailPath derives the deterministic absolute path a thumbnail for
// source must live at, inside the bookmark's writable cache directory.
func (d *DB) ThumbnailPath(source string) string {
	rel, err := filepath.Rel(d.root, source)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(source)
	}
	return filepath.Join(d.thumbDir, hashName(rel)+".png")
}

// hashName turns an arbitrary relative path into a filesystem-safe,
// collision-resistant cache key using FNV-1a; no filesystem lookup is
// required to compute the destination path.
func hashName(rel string) string {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	var h uint64 = offset64
	for i := 0; i < len(rel); i++ {
		h ^= uint64(rel[i])
		h *= prime64
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h)
	return base64.RawURLEncoding.EncodeToString(buf[:])
}
