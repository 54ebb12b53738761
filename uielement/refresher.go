package uielement

import (
	"sync"

	"github.com/hintmouse/hintmouse/winmodel"
)

// Refresher is the single-threaded cooperative background refresher from
// spec.md §4.5: it serializes one in-flight fetch per window handle and
// publishes completed fetches into a Cache, so enumeration of
// non-top-window elements never blocks the session activation path.
type Refresher struct {
	cache *Cache

	mu       sync.Mutex
	inFlight map[winmodel.Handle]bool

	work chan winmodel.Handle
	done chan struct{}
}

// NewRefresher starts a single worker goroutine draining work into cache.
// Callers must call Stop when done to release the worker.
func NewRefresher(cache *Cache) *Refresher {
	r := &Refresher{
		cache:    cache,
		inFlight: make(map[winmodel.Handle]bool),
		work:     make(chan winmodel.Handle, 64),
		done:     make(chan struct{}),
	}
	go r.loop()
	return r
}

// Enqueue schedules window for a background refresh. Enqueuing a handle
// that already has a fetch in flight is a no-op, matching spec.md §4.5's
// "enqueuing the same handle while in flight is a no-op".
func (r *Refresher) Enqueue(window winmodel.Handle) {
	r.mu.Lock()
	if r.inFlight[window] {
		r.mu.Unlock()
		return
	}
	r.inFlight[window] = true
	r.mu.Unlock()

	select {
	case r.work <- window:
	case <-r.done:
	}
}

func (r *Refresher) loop() {
	for {
		select {
		case window := <-r.work:
			r.cache.Refresh(window)
			r.mu.Lock()
			delete(r.inFlight, window)
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}

// Stop shuts the worker down. It does not wait for an in-flight fetch to
// complete.
func (r *Refresher) Stop() {
	close(r.done)
}
