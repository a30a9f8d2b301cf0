// Package workers implements the enrichment worker pool: one dedicated
// goroutine per queue kind, polling its bounded queue on a short timer and
// enriching rows off the UI thread. Each worker's per-row pass is wrapped
// in panic recovery so a bad row never takes the loop down.
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/wgergely0/bookmarks-core/internal/assetbrowser/errs"
	"github.com/wgergely0/bookmarks-core/internal/model"
	"github.com/wgergely0/bookmarks-core/internal/queue"
)

// MaxItemsPerTick bounds how many entries one poll tick processes before
// yielding.
const MaxItemsPerTick = 32

// PollInterval is the short periodic timer each worker polls its queue on.
const PollInterval = 75 * time.Millisecond

// Resolver resolves a queue.Entry back to its RowRecord, honouring the
// tier-generation check. It is the generic seam every worker kind uses to
// find the row it must enrich.
type Resolver func(e queue.Entry) (*model.RowRecord, bool)

// Processor performs one row's enrichment pass. It is handed the resolved
// row and must itself decide whether to publish a latch; Worker only
// handles dequeue/interrupt/panic-recovery plumbing around it.
type Processor func(ctx context.Context, row *model.RowRecord)

// Notifier is called after a row finishes processing, so a UI-thread
// listener can learn a row is ready without workers touching the UI
// directly.
type Notifier func(rowID uint64)

// Worker drains one queue.Queue on its own goroutine.
type Worker struct {
	kind       queue.Kind
	q          *queue.Queue
	resolve    Resolver
	process    Processor
	notify     Notifier
	interval   time.Duration
	maxPerTick int
}

// New creates a Worker for q. resolve looks up the row a dequeued entry
// names; process performs the enrichment; notify (optional) is invoked with
// the row's id after a successful, non-cancelled pass.
func New(kind queue.Kind, q *queue.Queue, resolve Resolver, process Processor, notify Notifier) *Worker {
	return &Worker{
		kind:       kind,
		q:          q,
		resolve:    resolve,
		process:    process,
		notify:     notify,
		interval:   PollInterval,
		maxPerTick: MaxItemsPerTick,
	}
}

// Run blocks, polling the queue every interval until ctx is cancelled. It
// is meant to be launched with `go w.Run(ctx)`, one goroutine per worker
// kind.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick drains up to maxPerTick entries from the queue.
func (w *Worker) tick(ctx context.Context) {
	for i := 0; i < w.maxPerTick; i++ {
		if ctx.Err() != nil {
			return
		}
		entry, ok := w.q.Pop()
		if !ok {
			return
		}
		w.processOne(ctx, entry)
	}
}

// processOne resolves, recovers from panics (caught at the worker
// boundary and logged; the loop continues with the next entry), and
// honours a reset's cooperative interrupt.
func (w *Worker) processOne(ctx context.Context, entry queue.Entry) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("enrichment worker panicked", "kind", w.kind, "row_id", entry.RowID, "panic", r, "class", errs.Fatal)
		}
	}()

	if w.q.TakeInterrupt() {
		// The next row dequeued after a reset is dropped without
		// processing and the flag is cleared; this entry's generation is
		// almost certainly stale anyway since a reset just fired.
		slog.Debug("enrichment row dropped on interrupt", "kind", w.kind, "row_id", entry.RowID, "class", errs.Cancelled)
		return
	}

	row, ok := w.resolve(entry)
	if !ok {
		// Dead/stale reference: the tier moved on.
		return
	}

	w.process(ctx, row)

	if w.notify != nil {
		w.notify(row.ID)
	}
}

// logAndLatch is the logging half of the log-and-latch policy: any step may
// fail; on failure it logs, and the processor's deferred publish still sets
// the latch so a tier reset is the only thing that retries it. Leaving the
// latch unset would retry the same failing row forever within one tier
// lifetime.
func logAndLatch(kind queue.Kind, row *model.RowRecord, step string, err error) {
	if err == nil {
		return
	}
	slog.Warn("enrichment step failed, latching anyway", "kind", kind, "row_id", row.ID, "path", row.Path, "step", step, "err", err)
}
