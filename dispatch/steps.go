// Package dispatch implements the command dispatcher (spec.md §4.9): it
// receives matched commands from the keyboard state machine and drives the
// cursor, wheel, drag, and overlay-offset effects, using a modifier-aware
// step table for translate/scroll/drag movement.
package dispatch

import "github.com/hintmouse/hintmouse/keyboard"

// Step is one candidate movement magnitude from mouse.step configuration
// (spec.md §6): an (x, y) pair, optionally gated to a set of modifiers.
type Step struct {
	X, Y      int
	Modifiers []keyboard.Name
}

// StepTable is an ordered list of candidate steps for one movement family
// (translate, scroll, or drag).
type StepTable []Step

// Select implements spec.md §4.9's step-selection policy: the first step
// whose modifier list contains any currently-held modifier wins; absent a
// match, the last step with no modifier list is used.
func (t StepTable) Select(held map[keyboard.Name]bool) Step {
	for _, s := range t {
		if len(s.Modifiers) == 0 {
			continue
		}
		for _, m := range s.Modifiers {
			if held[m] {
				return s
			}
		}
	}
	var fallback Step
	haveFallback := false
	for _, s := range t {
		if len(s.Modifiers) == 0 {
			fallback = s
			haveFallback = true
		}
	}
	if haveFallback {
		return fallback
	}
	return Step{}
}

// DirectionKeys is one movement family's configured up/down/left/right keys
// (spec.md §6's keybinding direction maps).
type DirectionKeys struct {
	Up, Down, Left, Right []keyboard.Name
}

func anyHeld(keys []keyboard.Name, held map[keyboard.Name]bool) bool {
	for _, k := range keys {
		if held[k] {
			return true
		}
	}
	return false
}

// Resolve computes the combined (dx, dy) from whichever direction keys are
// currently held, independently per axis, per spec.md §4.9's direction
// resolution ("both may be non-zero in one tick").
func (d DirectionKeys) Resolve(held map[keyboard.Name]bool, step Step) (dx, dy int) {
	if anyHeld(d.Up, held) {
		dy -= step.Y
	}
	if anyHeld(d.Down, held) {
		dy += step.Y
	}
	if anyHeld(d.Left, held) {
		dx -= step.X
	}
	if anyHeld(d.Right, held) {
		dx += step.X
	}
	return dx, dy
}
