package dispatch

import (
	"sync"
	"testing"

	"github.com/hintmouse/hintmouse/hint"
	"github.com/hintmouse/hintmouse/hintassign"
	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/occlusion"
	"github.com/hintmouse/hintmouse/uielement"
	"github.com/hintmouse/hintmouse/winmodel"
)

type fakeCursor struct {
	mu        sync.Mutex
	positions [][2]int
	relMoves  [][2]int
	leftDowns int
	leftUps   int
	leftClicks int
	wheels    [][2]int
}

func (c *fakeCursor) SetCursorPosition(x, y int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positions = append(c.positions, [2]int{x, y})
	return nil
}
func (c *fakeCursor) MoveRelative(dx, dy int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.relMoves = append(c.relMoves, [2]int{dx, dy})
	return nil
}
func (c *fakeCursor) ClickLeft() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftClicks++
	return nil
}
func (c *fakeCursor) ClickRight() error  { return nil }
func (c *fakeCursor) ClickMiddle() error { return nil }
func (c *fakeCursor) LeftDown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftDowns++
	return nil
}
func (c *fakeCursor) LeftUp() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftUps++
	return nil
}
func (c *fakeCursor) Wheel(dx, dy int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wheels = append(c.wheels, [2]int{dx, dy})
	return nil
}

type fakeRenderer struct {
	mu      sync.Mutex
	hidden  int
	moved   [][2]int
	filters []string
}

func (r *fakeRenderer) ShowHints(int, []hintassign.Hint) error  { return nil }
func (r *fakeRenderer) ShowHints2(int, []hintassign.Hint) error { return nil }
func (r *fakeRenderer) HideHints(int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden++
	return nil
}
func (r *fakeRenderer) MoveHints(_ int, dx, dy int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moved = append(r.moved, [2]int{dx, dy})
	return nil
}
func (r *fakeRenderer) FilterHints(_ int, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, prefix)
	return nil
}

func oneHintSetup() (*monitor.Registry, *hintassign.ActiveHintIndex) {
	monitors := monitor.NewRegistry([]monitor.RawMonitor{{X: 0, Y: 0, Width: 1000, Height: 1000, ScaleFactor: 1}})
	w := winmodel.Window{Handle: 1, X: 0, Y: 0, Width: 1000, Height: 1000, ZIndex: 0, Visible: true}
	occ := occlusion.Analyze([]winmodel.Window{w})
	elements := map[winmodel.Handle][]uielement.Element{
		1: {{Window: 1, X: 100, Y: 200, ElementType: 0, Z: 0}},
	}
	pool := hint.Generate([][]rune{{'A'}}, nil)
	a := hintassign.New(monitors, occ, elements, pool, hintassign.GridSpec{})
	_, _, index := a.Assign()
	return monitors, index
}

func TestDispatcherMoveToHintSetsCursorPosition(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	d := New(cursor, renderer, Steps{}, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	d.Execute(keyboard.CmdMoveToHint, "A", nil, false, true)
	d.Flush()

	cursor.mu.Lock()
	defer cursor.mu.Unlock()
	if len(cursor.positions) != 1 || cursor.positions[0] != [2]int{100, 200} {
		t.Fatalf("expected cursor moved to (100,200), got %+v", cursor.positions)
	}
}

func TestDispatcherLeftClickExitMovesAndClicks(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	d := New(cursor, renderer, Steps{}, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	d.Execute(keyboard.CmdLeftClickExit, "A", nil, false, true)
	d.Flush()

	cursor.mu.Lock()
	defer cursor.mu.Unlock()
	if cursor.leftClicks != 1 {
		t.Fatalf("expected exactly one left click, got %d", cursor.leftClicks)
	}
}

func TestDispatcherUnresolvedLabelIsSilentNoOp(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	d := New(cursor, renderer, Steps{}, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	d.Execute(keyboard.CmdLeftClick, "ZZZ", nil, false, true)
	d.Flush()

	cursor.mu.Lock()
	defer cursor.mu.Unlock()
	if cursor.leftClicks != 0 || len(cursor.positions) != 0 {
		t.Fatalf("expected no cursor effects for an unresolved label, got clicks=%d positions=%+v", cursor.leftClicks, cursor.positions)
	}
}

func TestDispatcherTranslateMovesOffsetAndRenderer(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	steps := Steps{
		Translate:           StepTable{{X: 10, Y: 10}},
		TranslateKeys:       DirectionKeys{Up: []keyboard.Name{"Up"}},
		GlobalTranslateKeys: DirectionKeys{Up: []keyboard.Name{"Shift"}},
	}
	d := New(cursor, renderer, steps, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	d.Execute(keyboard.CmdTranslateUp, "", map[keyboard.Name]bool{"Up": true}, false, true)
	d.Flush()

	if dx, dy := index.Offset(); dx != 0 || dy != -10 {
		t.Fatalf("expected offset (0,-10), got (%d,%d)", dx, dy)
	}
	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	if len(renderer.moved) != 1 || renderer.moved[0] != [2]int{0, -10} {
		t.Fatalf("expected renderer move-hints (0,-10), got %+v", renderer.moved)
	}
}

func TestDispatcherTranslateUsesGlobalKeysOutsideAtHint(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	steps := Steps{
		Translate:           StepTable{{X: 10, Y: 10}},
		TranslateKeys:       DirectionKeys{Up: []keyboard.Name{"Up"}},
		GlobalTranslateKeys: DirectionKeys{Up: []keyboard.Name{"Shift"}},
	}
	d := New(cursor, renderer, steps, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	// "Up" is only configured in the at_hint key set; in the global context
	// (atHint=false) only "Shift" resolves a direction.
	d.Execute(keyboard.CmdTranslateUp, "", map[keyboard.Name]bool{"Up": true}, false, false)
	d.Flush()
	if dx, dy := index.Offset(); dx != 0 || dy != 0 {
		t.Fatalf("expected no movement from a key not in the global set, got (%d,%d)", dx, dy)
	}

	d.Execute(keyboard.CmdTranslateUp, "", map[keyboard.Name]bool{"Shift": true}, false, false)
	d.Flush()
	if dx, dy := index.Offset(); dx != 0 || dy != -10 {
		t.Fatalf("expected offset (0,-10) via the global key set, got (%d,%d)", dx, dy)
	}
}

func TestDispatcherDragFirstCallMovesAndLeftDownSubsequentOnlyRelative(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	steps := Steps{
		Drag:     StepTable{{X: 5, Y: 0}},
		DragKeys: DirectionKeys{Right: []keyboard.Name{"Right"}},
	}
	d := New(cursor, renderer, steps, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	held := map[keyboard.Name]bool{"Right": true}
	d.Execute(keyboard.CmdDragRight, "A", held, true, true)
	d.Flush()
	d.Execute(keyboard.CmdDragRight, "A", held, true, true)
	d.Flush()

	cursor.mu.Lock()
	defer cursor.mu.Unlock()
	if cursor.leftDowns != 1 {
		t.Fatalf("expected exactly one left_down across both drag calls, got %d", cursor.leftDowns)
	}
	if len(cursor.positions) != 1 {
		t.Fatalf("expected cursor_move only on the first drag call, got %d", len(cursor.positions))
	}
	if len(cursor.relMoves) != 2 {
		t.Fatalf("expected a relative move on both drag calls, got %d", len(cursor.relMoves))
	}
}

func TestDispatcherEndSessionReleasesDragAndHides(t *testing.T) {
	monitors, index := oneHintSetup()
	cursor := &fakeCursor{}
	renderer := &fakeRenderer{}
	d := New(cursor, renderer, Steps{}, nil)
	defer d.Close()
	d.SetSession(index, monitors)

	d.EndSession(true)
	d.Flush()

	cursor.mu.Lock()
	if cursor.leftUps != 1 {
		t.Fatalf("expected left_up on session end while dragging, got %d", cursor.leftUps)
	}
	cursor.mu.Unlock()

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	if renderer.hidden != 1 {
		t.Fatalf("expected hide-hints broadcast once (one monitor), got %d", renderer.hidden)
	}
}

func TestStepTableSelectModifierWinsOverFallback(t *testing.T) {
	table := StepTable{
		{X: 1, Y: 1},
		{X: 10, Y: 10, Modifiers: []keyboard.Name{"Shift"}},
		{X: 2, Y: 2},
	}
	got := table.Select(map[keyboard.Name]bool{"Shift": true})
	if got.X != 10 {
		t.Fatalf("expected the Shift-gated step to win, got %+v", got)
	}
	got = table.Select(nil)
	if got.X != 2 {
		t.Fatalf("expected the last unmodified step as fallback, got %+v", got)
	}
}
