// Package errs defines the errors.Is-comparable sentinels collaborators
// wrap their failures with, so callers can branch on the failure class
// without depending on the failing package's internals.
package errs

import "errors"

// Cancelled and Fatal are process-internal
// signals (a worker never returns them to its caller as a value; they are
// defined here so worker code can refer to the failure class by name); the
// other four are returned/wrapped by collaborators across package
// boundaries.
var (
	// NotFound: the filesystem entity behind a row disappeared.
	NotFound = errors.New("assetbrowser: not found")
	// DecodeFailed: the image backend refused a source.
	DecodeFailed = errors.New("assetbrowser: decode failed")
	// WriteDenied: the thumbnail directory was not writable.
	WriteDenied = errors.New("assetbrowser: write denied")
	// Corrupt: the notes JSON blob was unparseable.
	Corrupt = errors.New("assetbrowser: corrupt data")
	// Cancelled: a worker's interrupt fired mid-row.
	Cancelled = errors.New("assetbrowser: cancelled")
	// Fatal: an unexpected panic, caught at the worker boundary.
	Fatal = errors.New("assetbrowser: fatal")
)
