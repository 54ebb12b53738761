package hintassign

import "sync"

// ActiveHintIndex is the label -> hint lookup the dispatcher consults once a
// full label resolves, together with the global (dx, dy) offset translate_*
// commands accumulate (spec.md §4.7). It is safe for concurrent
// Lookup/HasPrefix/Move/Offset/Len calls.
type ActiveHintIndex struct {
	mu         sync.Mutex
	byLabel    map[string]indexedHint
	offX, offY int
}

type indexedHint struct {
	monitor int
	hint    Hint
}

func newActiveHintIndex(byMonitor map[int][]Hint) *ActiveHintIndex {
	idx := &ActiveHintIndex{byLabel: make(map[string]indexedHint)}
	for monitorID, hints := range byMonitor {
		for _, h := range hints {
			idx.byLabel[h.Label] = indexedHint{monitor: monitorID, hint: h}
		}
	}
	return idx
}

// Lookup resolves a fully-typed label to its monitor and hint, with the
// index's current offset already applied to the hint's (x, y). ok is false
// if no hint in the index carries that exact label.
func (idx *ActiveHintIndex) Lookup(label string) (monitorID int, h Hint, ok bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	entry, found := idx.byLabel[label]
	if !found {
		return 0, Hint{}, false
	}
	h = entry.hint
	h.X += idx.offX
	h.Y += idx.offY
	return entry.monitor, h, true
}

// HasPrefix reports whether any label in the index starts with prefix.
func (idx *ActiveHintIndex) HasPrefix(prefix string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for label := range idx.byLabel {
		if len(label) >= len(prefix) && label[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

// Move accumulates (dx, dy) into the index's offset, implementing
// translate_{up,down,left,right}'s "move hints" effect (spec.md §4.9).
func (idx *ActiveHintIndex) Move(dx, dy int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.offX += dx
	idx.offY += dy
}

// Offset returns the current accumulated offset.
func (idx *ActiveHintIndex) Offset() (dx, dy int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.offX, idx.offY
}

// Len returns the number of distinct hints in the index.
func (idx *ActiveHintIndex) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.byLabel)
}
