// Package searchctl is the background search worker: one goroutine owns
// one engine state's transposition table, killer, and history tables
// across the worker's whole lifetime, accepting Compute/Stop/End messages
// and streaming principal variations out on a channel. Grounded on the
// teacher's pkg/search/searchctl Launcher/handle split (iterative.go,
// launcher.go, timectrl.go), collapsed around spec.md §4.I's narrower
// two-message protocol (Compute, End) plus the cooperative Stop the
// concurrency model (§5) requires.
package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/santorini-engine/core/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

// Options configures one Compute call (spec.md §4.I: "Compute(position,
// duration|∞)").
type Options struct {
	MaxDepth int
	Duration lang.Optional[time.Duration]
}

// Controller is a single background worker. Not safe for concurrent
// Compute calls -- the concurrency model (spec.md §5) is "one background
// worker runs one search at a time"; Compute itself enforces that by
// stopping whatever is in flight before starting the next.
type Controller struct {
	search *search.Search

	mu      sync.Mutex
	current *attempt
}

// NewController builds a worker around a transposition table that
// persists across every Compute call for the worker's lifetime (spec.md
// §4.I, "TT persists across searches within the same worker lifetime").
func NewController(tt search.TranspositionTable) *Controller {
	return &Controller{search: search.NewSearch(tt)}
}

// attempt is the state of one in-flight (or just-finished) Compute call:
// a cancellation flag shared between the I/O thread and the worker
// goroutine (spec.md §5, "the only datum shared between I/O and worker"),
// and an AsyncCloser the worker signals on exit so Stop can block until
// the search has actually wound down.
type attempt struct {
	cancel atomic.Bool
	done   iox.AsyncCloser

	mu sync.Mutex
	pv search.PV
}

func (a *attempt) Done() bool { return a.cancel.Load() }

func (a *attempt) snapshot() search.PV {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pv
}

func (a *attempt) record(pv search.PV) {
	a.mu.Lock()
	a.pv = pv
	a.mu.Unlock()
}

// Compute supersedes any in-flight search (cancel, drain, then start --
// spec.md §5's ordering guarantee), resets the cancellation flag, and
// spawns the new search in its own goroutine. PVs are relayed to the
// returned channel, which is closed when the search is exhausted,
// cancelled, or mates out.
func (c *Controller) Compute(ctx context.Context, n *search.Node, opt Options) <-chan search.PV {
	c.Stop()

	a := &attempt{done: iox.NewAsyncCloser()}
	c.mu.Lock()
	c.current = a
	c.mu.Unlock()

	out := make(chan search.PV, 1)
	go c.run(ctx, n, opt, a, out)
	return out
}

func (c *Controller) run(ctx context.Context, n *search.Node, opt Options, a *attempt, out chan search.PV) {
	defer close(out)
	defer a.done.Close()

	if d, ok := opt.Duration.V(); ok {
		timer := time.AfterFunc(d, func() { a.cancel.Store(true) })
		defer timer.Stop()
	}

	wctx, cancel := contextx.WithQuitCancel(ctx, a.done.Closed())
	defer cancel()

	term := search.TriggerFunc(func() bool {
		return a.Done() || contextx.IsCancelled(wctx)
	})

	sopt := search.Options{MaxDepth: opt.MaxDepth}
	final := c.search.Run(n, term, sopt, func(pv search.PV) {
		a.record(pv)
		select {
		case out <- pv:
		case <-wctx.Done():
		}
	})

	logw.Debugf(ctx, "Compute finished: %v", final)
}

// Stop sets the cancellation flag for the in-flight search, if any, and
// waits for the worker goroutine to wind down before returning the best
// move found so far (spec.md §4.I). Idempotent; a no-op when nothing is
// running.
func (c *Controller) Stop() search.PV {
	c.mu.Lock()
	a := c.current
	c.mu.Unlock()
	if a == nil {
		return search.PV{}
	}

	a.cancel.Store(true)
	<-a.done.Closed()
	return a.snapshot()
}

// End tears down the worker by ensuring no search is left running. The
// engine façade discards the controller and its TT afterward: every
// reset builds a fresh controller around a fresh TT.
func (c *Controller) End() {
	c.Stop()
}
