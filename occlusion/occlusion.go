// Package occlusion implements the Z-order occlusion analyzer (spec.md §4.4):
// given a Z-sorted window list it decides which windows are fully visible,
// which are partially covered (and by what rectangles), and which are
// entirely hidden.
package occlusion

import (
	"github.com/hintmouse/hintmouse/geometry"
	"github.com/hintmouse/hintmouse/winmodel"
)

// maxCoveredAreas bounds the work done per window: once a window has
// accumulated this many distinct covering rectangles, the next new one makes
// it count as fully covered and dropped, matching spec.md §4.4 step 5 and
// the original's max_covered_area cap.
const maxCoveredAreas = 10

// Result is the analyzer's output: top_windows and windows_covered_areas
// from spec.md §4.4, which together with the fully-covered remainder
// partition the input's visible, non-taskbar windows.
type Result struct {
	Top     []winmodel.Window
	Covered map[winmodel.Handle]WindowCoverage
}

// WindowCoverage pairs a covered window with its list of covering rectangles.
type WindowCoverage struct {
	Window winmodel.Window
	Areas  []geometry.Rect
}

// CoveredAreas returns areas for handle, or nil if handle is not in the
// windows_covered_areas set.
func (r Result) CoveredAreas(h winmodel.Handle) []geometry.Rect {
	if wc, ok := r.Covered[h]; ok {
		return wc.Areas
	}
	return nil
}

// Analyze takes windows already sorted Z-descending (topmost first, as
// winmodel.BuildSnapshot produces) and computes Result per spec.md §4.4.
//
// Task-bar windows are unconditionally top and never contribute coverage to
// windows below them, matching the original's taskbar carve-out.
func Analyze(windows []winmodel.Window) Result {
	result := Result{Covered: make(map[winmodel.Handle]WindowCoverage)}

	for i, w := range windows {
		if w.IsTaskBar {
			result.Top = append(result.Top, w)
			continue
		}
		rect := geometry.New(w.X, w.Y, w.Width, w.Height)

		var covered []geometry.Rect
		remaining := []geometry.Rect{rect}
		fullyCovered := false

		for _, upper := range windows[:i] {
			if upper.IsTaskBar {
				continue
			}
			upperRect := geometry.New(upper.X, upper.Y, upper.Width, upper.Height)
			inter, ok := rect.Intersection(upperRect)
			if !ok {
				continue
			}
			if containedInAny(covered, inter) {
				continue
			}
			if len(covered) >= maxCoveredAreas {
				fullyCovered = true
				break
			}
			covered = append(covered, inter)

			var next []geometry.Rect
			for _, rem := range remaining {
				if rem.Intersects(inter) {
					next = append(next, rem.Subtract(inter)...)
				} else {
					next = append(next, rem)
				}
			}
			remaining = next
			if len(remaining) == 0 {
				fullyCovered = true
				break
			}
		}

		if fullyCovered {
			continue
		}
		if len(covered) == 0 {
			result.Top = append(result.Top, w)
		} else {
			result.Covered[w.Handle] = WindowCoverage{Window: w, Areas: covered}
		}
	}

	return result
}

// containedInAny reports whether candidate adds no new coverage beyond
// what areas already records, i.e. some existing area already contains it.
func containedInAny(areas []geometry.Rect, candidate geometry.Rect) bool {
	for _, a := range areas {
		if a.Contains(candidate) {
			return true
		}
	}
	return false
}
