package uielement

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/hintmouse/hintmouse/winmodel"
)

type blockingFetcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *blockingFetcher) AccessibilitySubtree(winmodel.Handle) ([]RawElement, error) {
	f.calls.Add(1)
	<-f.release
	return nil, nil
}

func TestRefresherDedupesInFlightEnqueues(t *testing.T) {
	fetcher := &blockingFetcher{release: make(chan struct{})}
	cache := NewCache(time.Minute, fetcher, fixedResolver{})
	refresher := NewRefresher(cache)
	defer refresher.Stop()

	refresher.Enqueue(1)
	refresher.Enqueue(1)
	refresher.Enqueue(1)

	close(fetcher.release)
	// give the worker a moment to drain the single queued job.
	deadline := time.After(time.Second)
	for {
		if fetcher.calls.Load() >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("refresher never ran the enqueued fetch")
		case <-time.After(time.Millisecond):
		}
	}
	time.Sleep(10 * time.Millisecond)
	if fetcher.calls.Load() != 1 {
		t.Fatalf("expected exactly one fetch despite 3 enqueues while in flight, got %d", fetcher.calls.Load())
	}
}
