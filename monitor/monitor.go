// Package monitor maintains the ordered registry of displays hint sessions
// place overlays on.
package monitor

import (
	"sort"

	"github.com/hintmouse/hintmouse/geometry"
)

// Monitor describes one display in virtual-screen coordinates.
type Monitor struct {
	ID    int
	X, Y  int
	Width, Height int
	// ScaleFactor converts device-independent pixels to physical pixels;
	// hint positions are stored divided by this value.
	ScaleFactor float64
}

// Rect returns the monitor's bounds as a geometry.Rect.
func (m Monitor) Rect() geometry.Rect {
	return geometry.New(m.X, m.Y, m.Width, m.Height)
}

// ContainsPoint reports whether the virtual-screen point (x, y) falls
// within this monitor.
func (m Monitor) ContainsPoint(x, y int) bool {
	return m.Rect().ContainsPoint(x, y)
}

// Registry is the process-wide ordered monitor list (spec.md §3, Process-wide
// state S). It is replaced wholesale on refresh, never mutated in place, so
// readers holding a snapshot never observe a partial update.
type Registry struct {
	monitors []Monitor
}

// RawMonitor is what a platform.Enumerator implementation reports for one
// physical display, before sorting and id assignment.
type RawMonitor struct {
	X, Y          int
	Width, Height int
	ScaleFactor   float64
}

// NewRegistry builds a Registry from raw monitor reports, sorting them by
// (y, x) ascending and assigning dense 0-based ids — the ordering and id
// scheme spec.md §3 requires.
func NewRegistry(raw []RawMonitor) *Registry {
	sorted := make([]RawMonitor, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	monitors := make([]Monitor, len(sorted))
	for i, r := range sorted {
		monitors[i] = Monitor{
			ID:          i,
			X:           r.X,
			Y:           r.Y,
			Width:       r.Width,
			Height:      r.Height,
			ScaleFactor: r.ScaleFactor,
		}
	}
	return &Registry{monitors: monitors}
}

// All returns the monitors in id order. The returned slice must not be
// mutated by callers.
func (r *Registry) All() []Monitor {
	return r.monitors
}

// ByID looks up a monitor by its dense id.
func (r *Registry) ByID(id int) (Monitor, bool) {
	if id < 0 || id >= len(r.monitors) {
		return Monitor{}, false
	}
	return r.monitors[id], true
}

// Locate returns the first monitor containing the virtual-screen point
// (x, y), in id order.
func (r *Registry) Locate(x, y int) (Monitor, bool) {
	for _, m := range r.monitors {
		if m.ContainsPoint(x, y) {
			return m, true
		}
	}
	return Monitor{}, false
}
