// Package winmodel defines the window data model and the capability the
// core consumes to enumerate them (spec.md §3, §4.3, §6). Concrete
// enumeration lives in a platform package; this package only describes the
// shape and the classification rules the core applies to a raw snapshot.
package winmodel

import "strings"

// Handle is an opaque native window handle. Equality and hashing of a
// Window are defined on the handle alone.
type Handle uint64

// Window is one visible top-level window, as produced by an enumeration
// pass. The bounding rectangle is the one RawWindowInfo's Client* fields
// report; platform/winapi fills those from the outer frame rectangle.
type Window struct {
	Handle    Handle
	X, Y      int
	Width, Height int
	Title     string
	ClassName string
	// ZIndex is assigned by the enumerator: the topmost visible window is 0,
	// each window below it decrements by one.
	ZIndex int
	Visible  bool
	IsTaskBar bool
}

// taskBarClasses lists window classes the original treats as task bars
// regardless of title or style (_examples/original_source/.../window.rs).
var taskBarClasses = []string{
	"shell_traywnd",
	"shell_secondarytraywnd",
}

// IsTaskBarClass reports whether className identifies a task-bar window,
// matched case-insensitively since window class names vary in case across
// shell versions.
func IsTaskBarClass(className string) bool {
	lower := strings.ToLower(className)
	for _, c := range taskBarClasses {
		if lower == c {
			return true
		}
	}
	return false
}

// RawWindowInfo is what a platform.Enumerator.EnumerateWindows call
// reports for one native window, before the inclusion filter and z-index
// assignment described in spec.md §4.3 are applied.
type RawWindowInfo struct {
	Handle    Handle
	ClientX, ClientY int
	ClientWidth, ClientHeight int
	Title     string
	ClassName string
	Enabled   bool
	Minimized bool
	IsToolWindow   bool
	IsTransparent  bool
	IsSystemShell  bool
}

// Accept reports whether a raw window should be included in a snapshot,
// applying spec.md §4.3's inclusion rule: task bars are always included;
// everything else needs a non-empty title, must be enabled, and must not be
// a tool window, transparent, a known system shell window, or zero-sized.
func Accept(raw RawWindowInfo) bool {
	if IsTaskBarClass(raw.ClassName) {
		return true
	}
	if raw.Title == "" || !raw.Enabled {
		return false
	}
	if raw.IsToolWindow || raw.IsTransparent || raw.IsSystemShell {
		return false
	}
	return raw.ClientWidth > 0 && raw.ClientHeight > 0
}

// BuildSnapshot turns a Z-top-to-bottom ordered raw window list (as returned
// by the platform's top-to-bottom walk) into the filtered, z-indexed,
// z-descending Window snapshot spec.md §4.3 describes. The input order is
// the native top-to-bottom order; the topmost accepted window receives
// ZIndex 0.
func BuildSnapshot(topToBottom []RawWindowInfo) []Window {
	windows := make([]Window, 0, len(topToBottom))
	z := 0
	for _, raw := range topToBottom {
		if !Accept(raw) || raw.Minimized {
			continue
		}
		windows = append(windows, Window{
			Handle:    raw.Handle,
			X:         raw.ClientX,
			Y:         raw.ClientY,
			Width:     raw.ClientWidth,
			Height:    raw.ClientHeight,
			Title:     raw.Title,
			ClassName: raw.ClassName,
			ZIndex:    z,
			Visible:   true,
			IsTaskBar: IsTaskBarClass(raw.ClassName),
		})
		z--
	}
	return windows
}
