// Package platform defines the OS capability boundary the core consumes
// (spec.md §6): window/monitor enumeration, accessibility tree reads, the
// keyboard hook, cursor control, and renderer notifications. Concrete
// implementations live in per-OS subpackages (platform/winapi).
package platform

import (
	"context"

	"github.com/hintmouse/hintmouse/hintassign"
	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/uielement"
	"github.com/hintmouse/hintmouse/winmodel"
)

// Enumerator reports the current window Z-order and monitor layout.
type Enumerator interface {
	EnumerateWindows(ctx context.Context) ([]winmodel.RawWindowInfo, error)
	EnumerateMonitors(ctx context.Context) ([]monitor.RawMonitor, error)
}

// Accessibility reads one window's accessibility subtree.
type Accessibility interface {
	AccessibilitySubtree(window winmodel.Handle) ([]uielement.RawElement, error)
}

// KeyEvent is one key transition reported by a KeyHook. The hook
// collaborator owns virtual-key decoding (spec.md §6: config table lookup,
// then layout-aware ToUnicode for digits/letters, then a fixed OEM table)
// so the core never sees a raw virtual-key code.
type KeyEvent struct {
	Name   keyboard.Name
	IsDown bool
}

// KeyHook installs/removes the global low-level keyboard hook. The
// callback runs on the hook thread and must return promptly (spec.md §5);
// it returns true to consume the event (stop its propagation to other
// applications).
type KeyHook interface {
	InstallKeyHook(cb func(KeyEvent) (consumed bool)) error
	UninstallKeyHook() error
}

// Cursor is the set of primitives the dispatcher drives the mouse with.
type Cursor interface {
	SetCursorPosition(globalX, globalY int) error
	MoveRelative(dx, dy int) error
	ClickLeft() error
	ClickRight() error
	ClickMiddle() error
	LeftDown() error
	LeftUp() error
	Wheel(dx, dy int) error
}

// Renderer receives the overlay lifecycle events the session controller and
// dispatcher emit, one call per overlay window labeled overlay_<monitor_id>
// (spec.md §6). ShowHints/ShowHints2 carry the hint payload to save before
// display (spec.md §5's save_hints), so a renderer implementation can answer
// get_hint_position_by_text purely from what it was last shown.
type Renderer interface {
	ShowHints(monitorID int, hints []hintassign.Hint) error
	ShowHints2(monitorID int, hints []hintassign.Hint) error
	HideHints(monitorID int) error
	MoveHints(monitorID int, dx, dy int) error
	FilterHints(monitorID int, prefix string) error
}
