package workers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wgergely0/bookmarks-core/internal/queue"
)

// ReadyEvent is one data_ready notification. A row's ready event
// happens-after all of its field writes.
type ReadyEvent struct {
	Kind  queue.Kind
	RowID uint64
}

// Dispatcher is the cross-thread notification channel workers publish
// ReadyEvents onto; the owning UI-thread pump drains it, so workers never
// call UI code directly. Buffered so a burst of worker completions never
// blocks a worker goroutine.
type Dispatcher struct {
	ch chan ReadyEvent
}

// NewDispatcher creates a Dispatcher with the given channel buffer size.
func NewDispatcher(buffer int) *Dispatcher {
	return &Dispatcher{ch: make(chan ReadyEvent, buffer)}
}

// Events exposes the channel for a UI-thread pump to range over.
func (d *Dispatcher) Events() <-chan ReadyEvent { return d.ch }

// notifierFor builds a Notifier that publishes to d for kind, non-blocking:
// if the channel is saturated the event is dropped rather than stalling
// the worker; workers never apply pressure upstream.
func (d *Dispatcher) notifierFor(kind queue.Kind) Notifier {
	return func(rowID uint64) {
		select {
		case d.ch <- ReadyEvent{Kind: kind, RowID: rowID}:
		default:
		}
	}
}

// Pool owns one Worker per queue kind and runs them all on their own
// goroutines. Workers share no mutable state with their peers other than
// the queue map.
type Pool struct {
	workers []*Worker
	group   *errgroup.Group
}

// NewPool builds a Pool from kind->queue.Queue plus the resolver/processor
// pair each kind needs. dispatcher receives every worker's ready events.
func NewPool(dispatcher *Dispatcher, specs map[queue.Kind]struct {
	Queue   *queue.Queue
	Resolve Resolver
	Process Processor
}) *Pool {
	p := &Pool{}
	for kind, spec := range specs {
		var notify Notifier
		if dispatcher != nil {
			notify = dispatcher.notifierFor(kind)
		}
		p.workers = append(p.workers, New(kind, spec.Queue, spec.Resolve, spec.Process, notify))
	}
	return p
}

// Start launches every worker's Run loop in its own goroutine and returns
// immediately. Worker.Run never itself returns an error; the group is used
// purely for its WaitGroup-plus-shared-context semantics, so a future
// worker kind that does need to report a fatal error can propagate it
// without a second plumbing change.
func (p *Pool) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	p.group = g
	for _, w := range p.workers {
		w := w
		g.Go(func() error {
			w.Run(gctx)
			return nil
		})
	}
}

// Wait blocks until every worker goroutine has exited (ctx cancellation).
func (p *Pool) Wait() {
	if p.group != nil {
		_ = p.group.Wait()
	}
}
