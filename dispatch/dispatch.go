package dispatch

import (
	"time"

	"go.uber.org/zap"

	"github.com/hintmouse/hintmouse/hintassign"
	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/platform"
)

// doubleClickGap is the pause between the two clicks of a double-click,
// per spec.md §4.9.
const doubleClickGap = 50 * time.Millisecond

// Steps bundles the three modifier-aware step tables and direction-key
// configurations the dispatcher needs (spec.md §6's mouse.step and
// keybinding direction maps). Translate has two direction-key sets because
// keybinding.global.translate and keybinding.at_hint.translate may name
// different keys for the same translate_* command depending on which
// context matched it (executor.rs resolves direction through whichever
// context's key set is active); Scroll/Drag only bind in the at_hint
// context, so they need only one set each.
type Steps struct {
	Translate           StepTable
	Scroll              StepTable
	Drag                StepTable
	TranslateKeys       DirectionKeys
	GlobalTranslateKeys DirectionKeys
	ScrollKeys          DirectionKeys
	DragKeys            DirectionKeys
}

// Dispatcher implements keyboard.Sink: it receives matched commands and
// renderer hint-filtering events and drives platform.Cursor/Renderer.
// Every effect runs on an internal worker goroutine so the hook thread
// that calls into the keyboard state machine never blocks on I/O
// (spec.md §5).
type Dispatcher struct {
	index    *hintassign.ActiveHintIndex
	monitors *monitor.Registry
	cursor   platform.Cursor
	renderer platform.Renderer
	steps    Steps
	logger   *zap.Logger

	work chan func()
	done chan struct{}

	// dragging tracks, from the dispatcher's own side, whether the current
	// drag_* command is the one that starts the drag (cursor_move + left
	// down) or a continuation (cursor_move_relative only). The keyboard
	// state machine's dragging flag is already true on the very first
	// drag_* call, so it cannot be used to tell first from subsequent.
	dragging bool
}

// New builds a Dispatcher. index and monitors are swapped per-session by
// the session controller via SetIndex/SetMonitors before a session starts
// collecting keystrokes.
func New(cursor platform.Cursor, renderer platform.Renderer, steps Steps, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		cursor:   cursor,
		renderer: renderer,
		steps:    steps,
		logger:   logger,
		work:     make(chan func(), 256),
		done:     make(chan struct{}),
	}
	go d.loop()
	return d
}

// SetSession installs the index and monitor registry for the session about
// to start collecting keystrokes.
func (d *Dispatcher) SetSession(index *hintassign.ActiveHintIndex, monitors *monitor.Registry) {
	d.enqueue(func() {
		d.index = index
		d.monitors = monitors
	})
}

// Close stops the worker goroutine.
func (d *Dispatcher) Close() {
	close(d.done)
}

// Flush blocks until every effect enqueued before this call has run. Tests
// use it as a synchronization point with the worker goroutine, and
// session.Controller.Deactivate uses it to wait for the session-end hide.
func (d *Dispatcher) Flush() {
	done := make(chan struct{})
	d.enqueue(func() { close(done) })
	<-done
}

func (d *Dispatcher) loop() {
	for {
		select {
		case fn := <-d.work:
			fn()
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) enqueue(fn func()) {
	d.work <- fn
}

// FilterHints implements keyboard.Sink.
func (d *Dispatcher) FilterHints(prefix string) {
	d.enqueue(func() {
		d.broadcastRenderer(func(m monitor.Monitor) error {
			return d.renderer.FilterHints(m.ID, prefix)
		})
	})
}

// RemoveAllHints implements keyboard.Sink.
func (d *Dispatcher) RemoveAllHints() {
	d.enqueue(func() {
		d.broadcastRenderer(func(m monitor.Monitor) error {
			return d.renderer.FilterHints(m.ID, "_removeAllHints")
		})
	})
}

// EndSession implements keyboard.Sink.
func (d *Dispatcher) EndSession(wasDragging bool) {
	d.enqueue(func() {
		if wasDragging {
			if err := d.cursor.LeftUp(); err != nil && d.logger != nil {
				d.logger.Warn("left_up on session end failed", zap.Error(err))
			}
		}
		d.dragging = false
		d.broadcastRenderer(func(m monitor.Monitor) error {
			return d.renderer.HideHints(m.ID)
		})
	})
}

// Execute implements keyboard.Sink.
func (d *Dispatcher) Execute(cmd keyboard.Command, label string, held map[keyboard.Name]bool, dragging, atHint bool) {
	d.enqueue(func() { d.execute(cmd, label, held, dragging, atHint) })
}

func (d *Dispatcher) execute(cmd keyboard.Command, label string, held map[keyboard.Name]bool, dragging, atHint bool) {
	switch cmd {
	case keyboard.CmdMoveToHint, keyboard.CmdMoveToHintExit:
		d.moveToHint(label)
	case keyboard.CmdLeftClick, keyboard.CmdLeftClickExit:
		d.endDragIfNeeded(dragging)
		if d.moveToHint(label) {
			d.click(d.cursor.ClickLeft)
		}
	case keyboard.CmdRightClick, keyboard.CmdRightClickExit:
		d.endDragIfNeeded(dragging)
		if d.moveToHint(label) {
			d.click(d.cursor.ClickRight)
		}
	case keyboard.CmdMiddleClick, keyboard.CmdMiddleClickExit:
		d.endDragIfNeeded(dragging)
		if d.moveToHint(label) {
			d.click(d.cursor.ClickMiddle)
		}
	case keyboard.CmdDoubleClick, keyboard.CmdDoubleClickExit:
		d.endDragIfNeeded(dragging)
		if d.moveToHint(label) {
			d.click(d.cursor.ClickLeft)
			time.Sleep(doubleClickGap)
			d.click(d.cursor.ClickLeft)
		}
	case keyboard.CmdExit:
		d.endDragIfNeeded(dragging)
	case keyboard.CmdTranslateUp, keyboard.CmdTranslateDown, keyboard.CmdTranslateLeft, keyboard.CmdTranslateRight:
		d.translate(held, atHint)
	case keyboard.CmdScrollUp, keyboard.CmdScrollDown, keyboard.CmdScrollLeft, keyboard.CmdScrollRight:
		d.scroll(held)
	case keyboard.CmdDragUp, keyboard.CmdDragDown, keyboard.CmdDragLeft, keyboard.CmdDragRight:
		d.drag(label, held)
	}
}

// moveToHint resolves label through the active index and moves the
// cursor; it returns false (a silent no-op per spec.md §4.10's failure
// policy) if the label doesn't resolve.
func (d *Dispatcher) moveToHint(label string) bool {
	if d.index == nil {
		return false
	}
	monitorID, h, ok := d.index.Lookup(label)
	if !ok {
		return false
	}
	m, ok := d.monitors.ByID(monitorID)
	if !ok {
		return false
	}
	globalX := m.X + int(float64(h.X)*m.ScaleFactor)
	globalY := m.Y + int(float64(h.Y)*m.ScaleFactor)
	if err := d.cursor.SetCursorPosition(globalX, globalY); err != nil && d.logger != nil {
		d.logger.Warn("set_cursor_position failed", zap.Error(err))
		return false
	}
	return true
}

func (d *Dispatcher) click(fn func() error) {
	if err := fn(); err != nil && d.logger != nil {
		d.logger.Warn("click failed", zap.Error(err))
	}
}

func (d *Dispatcher) endDragIfNeeded(dragging bool) {
	if !dragging {
		return
	}
	if err := d.cursor.LeftUp(); err != nil && d.logger != nil {
		d.logger.Warn("left_up failed", zap.Error(err))
	}
	d.dragging = false
}

func (d *Dispatcher) translate(held map[keyboard.Name]bool, atHint bool) {
	step := d.steps.Translate.Select(held)
	keys := d.steps.GlobalTranslateKeys
	if atHint {
		keys = d.steps.TranslateKeys
	}
	dx, dy := keys.Resolve(held, step)
	if d.index != nil {
		d.index.Move(dx, dy)
	}
	d.broadcastRenderer(func(m monitor.Monitor) error {
		return d.renderer.MoveHints(m.ID, dx, dy)
	})
}

func (d *Dispatcher) scroll(held map[keyboard.Name]bool) {
	step := d.steps.Scroll.Select(held)
	dx, dy := d.steps.ScrollKeys.Resolve(held, step)
	if err := d.cursor.Wheel(dx, dy); err != nil && d.logger != nil {
		d.logger.Warn("wheel failed", zap.Error(err))
	}
}

func (d *Dispatcher) drag(label string, held map[keyboard.Name]bool) {
	if !d.dragging {
		if !d.moveToHint(label) {
			return
		}
		if err := d.cursor.LeftDown(); err != nil && d.logger != nil {
			d.logger.Warn("left_down failed", zap.Error(err))
			return
		}
		d.dragging = true
	}
	step := d.steps.Drag.Select(held)
	dx, dy := d.steps.DragKeys.Resolve(held, step)
	if err := d.cursor.MoveRelative(dx, dy); err != nil && d.logger != nil {
		d.logger.Warn("move_relative failed", zap.Error(err))
	}
}

func (d *Dispatcher) broadcastRenderer(fn func(monitor.Monitor) error) {
	if d.monitors == nil {
		return
	}
	for _, m := range d.monitors.All() {
		if err := fn(m); err != nil && d.logger != nil {
			d.logger.Warn("renderer event failed", zap.Int("monitor", m.ID), zap.Error(err))
		}
	}
}
