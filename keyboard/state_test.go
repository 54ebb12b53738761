package keyboard

import (
	"testing"
	"time"
)

type recordedExecute struct {
	cmd      Command
	label    string
	dragging bool
	atHint   bool
}

type fakeSink struct {
	filtered  []string
	removed   int
	executed  []recordedExecute
	ended     []bool
}

func (f *fakeSink) FilterHints(prefix string) { f.filtered = append(f.filtered, prefix) }
func (f *fakeSink) RemoveAllHints()           { f.removed++ }
func (f *fakeSink) Execute(cmd Command, label string, held map[Name]bool, dragging, atHint bool) {
	f.executed = append(f.executed, recordedExecute{cmd, label, dragging, atHint})
}
func (f *fakeSink) EndSession(wasDragging bool) { f.ended = append(f.ended, wasDragging) }

func testCharsets() HintCharsets {
	return HintCharsets{Charsets: [][]rune{{'A', 'B'}, {'X', 'Y'}}}
}

func testBindings() Bindings {
	global := NewTable([]CommandKeys{
		{Command: CmdHoldAtHint, Keys: []Name{HintKey, "Space"}},
		{Command: CmdMoveToHint, Keys: []Name{HintKey}},
		{Command: CmdMoveToHintExit, Keys: []Name{"Enter"}},
		{Command: CmdExit, Keys: []Name{"Escape"}},
	})
	atHint := NewTable([]CommandKeys{
		{Command: CmdLeftClick, Keys: []Name{"F"}},
		{Command: CmdDragUp, Keys: []Name{HintRightKey}},
	})
	return Bindings{
		Global:               global,
		AtHint:               atHint,
		PropagationModifiers: map[Name]bool{"Ctrl": true},
		MapLeftRight:         map[Name]Adjacency{"X": {Left: "A", Right: "Z"}},
	}
}

func TestCollectingAccumulatesPrefixAndFiltersHints(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)

	m.HandleKeyDown("A")
	if len(sink.filtered) != 1 || sink.filtered[0] != "A" {
		t.Fatalf("expected filter-hints after first char, got %+v", sink.filtered)
	}
}

func TestCollectingIgnoresInvalidCharsetContinuation(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)

	m.HandleKeyDown("A")
	m.HandleKeyDown("Q") // not in charset[1]
	if len(sink.filtered) != 1 {
		t.Fatalf("expected only the first accumulation to filter, got %+v", sink.filtered)
	}
}

func TestHoldAtHintEntersAtHintOnlyWhenLabelComplete(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)

	// incomplete prefix: HintKey is only synthesized once the prefix reaches
	// the label length, so AtHint is not entered yet.
	m.HandleKeyDown("A")
	if m.State() != Collecting {
		t.Fatalf("expected Collecting after an incomplete prefix, got %v", m.State())
	}
	// finishing the label auto-triggers hold_at_hint via its HintKey binding.
	m.HandleKeyDown("X")
	if m.State() != AtHint {
		t.Fatalf("expected AtHint after completing a bound-to-HintKey hold_at_hint, got %v", m.State())
	}
}

func TestCompletingLabelRunsEveryCommandBoundToHintKey(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)

	m.HandleKeyDown("A")
	m.HandleKeyDown("X") // completes the label; HintKey is bound to both move_to_hint and hold_at_hint

	if len(sink.executed) != 1 || sink.executed[0].cmd != CmdMoveToHint {
		t.Fatalf("expected move_to_hint to be executed once on label completion, got %+v", sink.executed)
	}
	if m.State() != AtHint {
		t.Fatalf("expected hold_at_hint to also run and enter AtHint, got %v", m.State())
	}
}

func TestHoldAtHintOnIncompletePrefixRemovesAllHints(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)

	m.HandleKeyDown("A")   // incomplete: prefix length 1 of hintLength 2
	m.HandleKeyDown("Space")

	if m.State() != Collecting {
		t.Fatalf("expected to remain in Collecting after an incomplete hold_at_hint, got %v", m.State())
	}
	if sink.removed != 1 {
		t.Fatalf("expected RemoveAllHints to be called once, got %d", sink.removed)
	}
}

func TestAtHintDynamicRightKeyTriggersDrag(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)
	m.HandleKeyDown("A")
	m.HandleKeyDown("X") // completes "AX", auto hold_at_hint -> AtHint, finalKey="X"

	m.HandleKeyDown("Z") // configured as the right-adjacent key of "X"
	if m.State() != AtHintDragging {
		t.Fatalf("expected AtHintDragging after drag command, got %v", m.State())
	}
	if len(sink.executed) == 0 || sink.executed[len(sink.executed)-1].cmd != CmdDragUp {
		t.Fatalf("expected CmdDragUp to have been executed, got %+v", sink.executed)
	}
}

func TestPropagationModifierBypassesCore(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	m.SwitchSession(true)

	m.HandleKeyDown("Ctrl")
	m.HandleKeyDown("A")
	if len(sink.filtered) != 0 {
		t.Fatalf("expected key to bypass the core while a propagation modifier is held, got %+v", sink.filtered)
	}
}

func TestQuickClickHeuristicSuppressesLateRelease(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	base := time.Now()
	m.now = func() time.Time { return base }
	m.SwitchSession(true)
	m.HandleKeyDown("A")
	m.HandleKeyDown("X") // enters AtHint, finalKeyHoldStart = base

	m.now = func() time.Time { return base.Add(500 * time.Millisecond) }
	m.HandleKeyUp("X")

	if m.State() != AtHint {
		t.Fatalf("expected session to remain in AtHint after a suppressed late release, got %v", m.State())
	}
	for _, e := range sink.executed {
		if e.cmd == CmdLeftClickExit {
			t.Fatalf("expected left_click_exit to be suppressed past the quick-click threshold")
		}
	}
}

func TestQuickClickHeuristicFiresOnFastRelease(t *testing.T) {
	sink := &fakeSink{}
	m := New(testCharsets(), testBindings(), sink)
	base := time.Now()
	m.now = func() time.Time { return base }
	m.SwitchSession(true)
	m.HandleKeyDown("A")
	m.HandleKeyDown("X")

	m.now = func() time.Time { return base.Add(50 * time.Millisecond) }
	m.HandleKeyUp("X")

	if m.State() != Idle {
		t.Fatalf("expected session to end after a fast release, got %v", m.State())
	}
	found := false
	for _, e := range sink.executed {
		if e.cmd == CmdLeftClickExit {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected left_click_exit to fire on fast release, got %+v", sink.executed)
	}
}
