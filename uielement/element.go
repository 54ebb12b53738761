// Package uielement implements the UI-element collector (spec.md §4.5): it
// turns a window's raw accessibility subtree into typed, positioned
// elements, and caches the result per window with a TTL and a background
// refresh path.
package uielement

import "github.com/hintmouse/hintmouse/winmodel"

// Element is one actionable, on-screen UI element inside a window.
type Element struct {
	Window      winmodel.Handle
	X, Y        int // center, virtual-screen pixels
	Width, Height int
	// Z is the hint-type priority used to break ties between overlapping
	// elements; it is not the OS Z-order.
	Z           int
	ControlType int
	// ElementType indexes into the configured hint-type table.
	ElementType int
}

// RawElement is one node of a window's accessibility subtree, as reported
// by platform.Accessibility before filtering.
type RawElement struct {
	ControlType int
	Enabled     bool
	Offscreen   bool
	X, Y        int // top-left
	Width, Height int
}

// TypeResolver maps a platform control-type integer to the hint-type index
// and z-priority configured for it (spec.md §3, HintType). It is satisfied
// by the parsed configuration's hint-type table.
type TypeResolver interface {
	Resolve(controlType int) (elementType int, z int, ok bool)
}

// Collect filters and maps a window's raw accessibility nodes into
// Elements, per spec.md §4.5:
//   - drop disabled or off-screen nodes,
//   - drop nodes whose control type isn't configured,
//   - drop nodes with non-positive width/height,
//   - dedupe by top-left, keeping the higher-z element on a collision.
func Collect(window winmodel.Handle, raws []RawElement, resolver TypeResolver) []Element {
	byTopLeft := make(map[[2]int]Element)
	order := make([][2]int, 0, len(raws))

	for _, raw := range raws {
		if !raw.Enabled || raw.Offscreen {
			continue
		}
		if raw.Width <= 0 || raw.Height <= 0 {
			continue
		}
		elementType, z, ok := resolver.Resolve(raw.ControlType)
		if !ok {
			continue
		}
		el := Element{
			Window:      window,
			X:           raw.X + raw.Width/2,
			Y:           raw.Y + raw.Height/2,
			Width:       raw.Width,
			Height:      raw.Height,
			Z:           z,
			ControlType: raw.ControlType,
			ElementType: elementType,
		}
		key := [2]int{raw.X, raw.Y}
		existing, seen := byTopLeft[key]
		if !seen {
			order = append(order, key)
			byTopLeft[key] = el
			continue
		}
		if el.Z > existing.Z {
			byTopLeft[key] = el
		}
	}

	out := make([]Element, 0, len(order))
	for _, key := range order {
		out = append(out, byTopLeft[key])
	}
	return out
}
