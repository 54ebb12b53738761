// Package hintassign implements the hint assigner (spec.md §4.7): it
// combines UI elements, occlusion results, monitor layout and the label
// pool into the per-monitor hints a renderer displays, and builds the
// ActiveHintIndex sessions look labels up against.
package hintassign

import (
	"github.com/hintmouse/hintmouse/geometry"
	"github.com/hintmouse/hintmouse/hint"
	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/occlusion"
	"github.com/hintmouse/hintmouse/uielement"
	"github.com/hintmouse/hintmouse/winmodel"
)

// Hint is one displayed label, in monitor-local device-independent units.
type Hint struct {
	Label       string
	X, Y        int
	Z           int
	ScaleFactor float64
	HintType    int
}

// GridSpec is the hint.grid configuration (spec.md §6): a rows x columns
// overlay shown at the configured row/column positions, using one
// configured hint type. TypeNames/TypeZ are the full ordered hint-type
// table (hint.types) so the grid can resolve HintTypeName the same way
// spec.md §3's HintType invariant resolves a malformed control-type
// mapping: fall back to the first configured type (SPEC_FULL.md's
// supplemented grid-fallback feature).
type GridSpec struct {
	Rows, Columns int
	ShowAtRows    []int
	ShowAtColumns []int
	HintTypeName  string
	TypeNames     []string
	TypeZ         []int
}

// resolveType returns the index and z-priority for HintTypeName, falling
// back to the first configured type if the name is absent or the table is
// empty.
func (g GridSpec) resolveType() (index, z int) {
	for i, name := range g.TypeNames {
		if name == g.HintTypeName {
			return i, g.TypeZ[i]
		}
	}
	if len(g.TypeNames) > 0 {
		return 0, g.TypeZ[0]
	}
	return 0, 0
}

// Assigner runs one session's hint assignment pass.
type Assigner struct {
	monitors *monitor.Registry
	occ      occlusion.Result
	elements map[winmodel.Handle][]uielement.Element
	pool     hint.Pool
	grid     GridSpec
}

// New builds an Assigner over one session's inputs. elements should contain
// the current (possibly cached) elements for every window appearing in
// top_windows or windows_covered_areas.
func New(monitors *monitor.Registry, occ occlusion.Result, elements map[winmodel.Handle][]uielement.Element, pool hint.Pool, grid GridSpec) *Assigner {
	return &Assigner{monitors: monitors, occ: occ, elements: elements, pool: pool, grid: grid}
}

// Assign runs the full two-pass-plus-grid assignment, per spec.md §4.7. It
// returns the Pass 1 + grid hints separately from the full set (Pass 1 +
// grid + Pass 2), so a renderer can show the first before the second begins
// rendering (spec.md §5's ordering guarantee) instead of showing the same
// complete set twice.
func (a *Assigner) Assign() (stage1, full map[int][]Hint, index *ActiveHintIndex) {
	positionSet := make(map[[2]int]struct{})
	counter := 0
	byMonitor := make(map[int][]Hint)

	a.assignFromWindows(a.occ.Top, nil, positionSet, &counter, byMonitor)
	a.assignGrid(&counter, byMonitor)
	stage1 = cloneHints(byMonitor)

	for _, wc := range a.occ.Covered {
		a.assignFromWindows([]winmodel.Window{wc.Window}, wc.Areas, positionSet, &counter, byMonitor)
	}

	index = newActiveHintIndex(byMonitor)
	return stage1, byMonitor, index
}

func cloneHints(byMonitor map[int][]Hint) map[int][]Hint {
	out := make(map[int][]Hint, len(byMonitor))
	for id, hs := range byMonitor {
		cp := make([]Hint, len(hs))
		copy(cp, hs)
		out[id] = cp
	}
	return out
}

// assignFromWindows implements spec.md §4.7's Pass 1 (covered == nil) and
// Pass 2 (covered contains the window's covered rectangles), mirroring
// do_generate_hints in the original generator.rs.
func (a *Assigner) assignFromWindows(windows []winmodel.Window, covered []geometry.Rect, positionSet map[[2]int]struct{}, counter *int, byMonitor map[int][]Hint) {
	for _, w := range windows {
		for _, el := range a.elements[w.Handle] {
			if *counter >= a.pool.Len() {
				return
			}
			key := [2]int{el.X, el.Y}
			if _, dup := positionSet[key]; dup {
				continue
			}
			positionSet[key] = struct{}{}

			m, ok := a.monitors.Locate(el.X, el.Y)
			if !ok {
				continue
			}
			if containsPoint(covered, el.X, el.Y) {
				continue
			}

			localX := int(float64(el.X-m.X) / m.ScaleFactor)
			localY := int(float64(el.Y-m.Y) / m.ScaleFactor)

			h := Hint{
				Label:       a.pool.At(*counter),
				X:           localX,
				Y:           localY,
				Z:           el.Z,
				ScaleFactor: m.ScaleFactor,
				HintType:    el.ElementType,
			}
			byMonitor[m.ID] = append(byMonitor[m.ID], h)
			*counter++
		}
	}
}

// containsPoint reports whether (x, y) falls within any of the given
// rectangles. A nil or empty slice contains nothing, matching Pass 1 (no
// covered areas to skip).
func containsPoint(areas []geometry.Rect, x, y int) bool {
	for _, r := range areas {
		if r.ContainsPoint(x, y) {
			return true
		}
	}
	return false
}

// assignGrid implements spec.md §4.7's grid pass. The grid pass does not
// participate in positionSet dedup with the element passes — see
// DESIGN.md's Open Question (b) decision.
func (a *Assigner) assignGrid(counter *int, byMonitor map[int][]Hint) {
	if a.grid.Rows == 0 || a.grid.Columns == 0 {
		return
	}
	typeIndex, z := a.grid.resolveType()
	for _, m := range a.monitors.All() {
		for _, row := range a.grid.ShowAtRows {
			for _, col := range a.grid.ShowAtColumns {
				if *counter >= a.pool.Len() {
					return
				}
				x := int((float64(col) - 0.5) * float64(m.Width) / float64(a.grid.Columns) / m.ScaleFactor)
				y := int((float64(row) - 0.5) * float64(m.Height) / float64(a.grid.Rows) / m.ScaleFactor)
				h := Hint{
					Label:       a.pool.At(*counter),
					X:           x,
					Y:           y,
					Z:           z,
					ScaleFactor: m.ScaleFactor,
					HintType:    typeIndex,
				}
				byMonitor[m.ID] = append(byMonitor[m.ID], h)
				*counter++
			}
		}
	}
}
