package main

import (
	"testing"

	"github.com/hintmouse/hintmouse/platform"
)

func TestHotkeyToggleFiresOnlyWhenEveryKeyIsHeld(t *testing.T) {
	toggle := newHotkeyToggle("Ctrl+Alt+Space")

	if toggle.observe(platform.KeyEvent{Name: "Space", IsDown: true}) {
		t.Fatalf("expected no fire before Ctrl/Alt are held")
	}
	toggle.observe(platform.KeyEvent{Name: "Ctrl", IsDown: true})
	if toggle.observe(platform.KeyEvent{Name: "Space", IsDown: true}) {
		t.Fatalf("expected no fire with only Ctrl held")
	}
	toggle.observe(platform.KeyEvent{Name: "Alt", IsDown: true})
	if !toggle.observe(platform.KeyEvent{Name: "Space", IsDown: true}) {
		t.Fatalf("expected fire once every chord key is held")
	}
}

func TestHotkeyToggleIgnoresKeyUpOnTheLastKey(t *testing.T) {
	toggle := newHotkeyToggle("Ctrl+Space")
	toggle.observe(platform.KeyEvent{Name: "Ctrl", IsDown: true})
	if toggle.observe(platform.KeyEvent{Name: "Space", IsDown: false}) {
		t.Fatalf("expected key-up on the trailing key to never fire")
	}
}

func TestHotkeyToggleWithEmptyChordNeverFires(t *testing.T) {
	toggle := newHotkeyToggle("")
	if toggle.observe(platform.KeyEvent{Name: "Space", IsDown: true}) {
		t.Fatalf("expected an empty configured chord to never fire")
	}
}

func TestHotkeyToggleReleasingAPriorKeyPreventsFire(t *testing.T) {
	toggle := newHotkeyToggle("Ctrl+Alt+Space")
	toggle.observe(platform.KeyEvent{Name: "Ctrl", IsDown: true})
	toggle.observe(platform.KeyEvent{Name: "Alt", IsDown: true})
	toggle.observe(platform.KeyEvent{Name: "Ctrl", IsDown: false})
	if toggle.observe(platform.KeyEvent{Name: "Space", IsDown: true}) {
		t.Fatalf("expected no fire after releasing Ctrl")
	}
}
