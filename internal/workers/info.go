package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wgergely0/bookmarks-core/internal/assetbrowser/errs"
	"github.com/wgergely0/bookmarks-core/internal/bookmarkdb"
	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/pathseq"
	"github.com/wgergely0/bookmarks-core/internal/queue"
)

// noteEntry is one row of the notes blob's JSON payload.
type noteEntry struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// InfoProcessor builds the Info-worker row pass: open the per-bookmark
// transaction, read description/notes/flags, compute
// sequence-or-file-specific sort/details fields, commit, and publish
// info_loaded. db resolves the bookmark database for a row's bookmark
// root; kind names the queue this processor is wired to, purely for the
// log-and-latch message.
func InfoProcessor(kind queue.Kind, db func(row *model.RowRecord) *bookmarkdb.DB) Processor {
	return func(_ context.Context, row *model.RowRecord) {
		defer row.PublishInfoLoaded() // always latch, even on failure

		d := db(row)
		if d == nil {
			return
		}
		txn := d.Transaction(row.Path)

		if v, ok := txn.Get("description"); ok {
			if s, ok := v.(string); ok {
				row.SetDescription(s)
			}
		}

		todoCount, err := countOpenTodos(txn)
		if err != nil {
			logAndLatch(kind, row, "notes", err)
		}
		row.SetTodoCount(todoCount)

		flags := model.FlagEditable | model.FlagDraggable
		if v, ok := txn.Get("flags"); ok {
			if n, ok := toInt64(v); ok {
				flags |= model.Flags(n)
			}
		}
		row.OrExtraFlags(flags)

		if row.Kind == model.KindSequence {
			applySequenceInfo(row)
		} else {
			applyFileInfo(row)
		}

		if err := txn.Commit(); err != nil {
			logAndLatch(kind, row, "commit", err)
		}
	}
}

// countOpenTodos decodes the base64-encoded notes JSON blob and counts
// entries where text is non-empty and checked is false. A corrupt or
// absent blob is treated as zero notes rather than an error that blocks
// the rest of the pass.
func countOpenTodos(txn *bookmarkdb.Txn) (int, error) {
	v, ok := txn.Get("notes")
	if !ok {
		return 0, nil
	}
	raw, ok := v.(string)
	if !ok || raw == "" {
		return 0, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return 0, fmt.Errorf("decoding notes blob: %w: %w", errs.Corrupt, err)
	}
	var entries []noteEntry
	if err := json.Unmarshal(decoded, &entries); err != nil {
		return 0, fmt.Errorf("parsing notes blob: %w: %w", errs.Corrupt, err)
	}
	count := 0
	for _, e := range entries {
		if e.Text != "" && !e.Checked {
			count++
		}
	}
	return count, nil
}

// applySequenceInfo writes a sequence row's frame-range metadata, summed
// size, max mtime, and the "<N>f; dd/MM/yyyy hh:mm; <bytes>" details string.
func applySequenceInfo(row *model.RowRecord) {
	start := pathseq.StartPath(row.Path)
	end := pathseq.EndPath(row.Path)
	row.SetSequenceRange(start, end)

	var totalSize int64
	var maxMtime time.Time
	for _, e := range row.Entries {
		if e.Info == nil {
			continue
		}
		totalSize += e.Info.Size()
		if mt := e.Info.ModTime(); mt.After(maxMtime) {
			maxMtime = mt
		}
	}

	details := fmt.Sprintf("%df; %s; %s", len(row.Frames), formatTimestamp(maxMtime), humanBytes(totalSize))
	row.SetInfo(details, totalSize, maxMtime)
}

// applyFileInfo is the single-entry equivalent, omitting the frame count
// from the details string.
func applyFileInfo(row *model.RowRecord) {
	var size int64
	var mtime time.Time
	if len(row.Entries) > 0 && row.Entries[0].Info != nil {
		size = row.Entries[0].Info.Size()
		mtime = row.Entries[0].Info.ModTime()
	}
	details := fmt.Sprintf("%s; %s", formatTimestamp(mtime), humanBytes(size))
	row.SetInfo(details, size, mtime)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "--/--/---- --:--"
	}
	return t.Format("02/01/2006 15:04")
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}
