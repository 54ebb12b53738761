package winmodel

import "testing"

func TestAcceptTaskBarBypassesOtherChecks(t *testing.T) {
	raw := RawWindowInfo{ClassName: "Shell_TrayWnd"}
	if !Accept(raw) {
		t.Fatalf("task bar window must be accepted regardless of title/size")
	}
}

func TestAcceptRequiresTitleAndSize(t *testing.T) {
	raw := RawWindowInfo{
		ClassName:     "Normal",
		Title:         "",
		Enabled:       true,
		ClientWidth:   100,
		ClientHeight:  100,
	}
	if Accept(raw) {
		t.Fatalf("window with empty title must be rejected")
	}
	raw.Title = "Editor"
	if !Accept(raw) {
		t.Fatalf("window with title, enabled, sized should be accepted")
	}
	raw.ClientWidth = 0
	if Accept(raw) {
		t.Fatalf("zero-width window must be rejected")
	}
}

func TestAcceptRejectsToolAndTransparentAndSystem(t *testing.T) {
	base := RawWindowInfo{ClassName: "X", Title: "t", Enabled: true, ClientWidth: 10, ClientHeight: 10}
	tool := base
	tool.IsToolWindow = true
	if Accept(tool) {
		t.Fatalf("tool window must be rejected")
	}
	transparent := base
	transparent.IsTransparent = true
	if Accept(transparent) {
		t.Fatalf("transparent window must be rejected")
	}
	system := base
	system.IsSystemShell = true
	if Accept(system) {
		t.Fatalf("system shell window must be rejected")
	}
}

func TestBuildSnapshotZIndexDescending(t *testing.T) {
	raws := []RawWindowInfo{
		{Handle: 1, Title: "top", Enabled: true, ClientWidth: 1, ClientHeight: 1},
		{Handle: 2, ClassName: "tool", Title: "", IsToolWindow: false, Enabled: true}, // rejected: no size
		{Handle: 3, Title: "bottom", Enabled: true, ClientWidth: 1, ClientHeight: 1},
	}
	windows := BuildSnapshot(raws)
	if len(windows) != 2 {
		t.Fatalf("expected 2 accepted windows, got %d", len(windows))
	}
	if windows[0].ZIndex != 0 {
		t.Fatalf("topmost accepted window must have ZIndex 0, got %d", windows[0].ZIndex)
	}
	if windows[1].ZIndex != -1 {
		t.Fatalf("second accepted window must have ZIndex -1, got %d", windows[1].ZIndex)
	}
}

func TestBuildSnapshotDropsInvisible(t *testing.T) {
	raws := []RawWindowInfo{
		{Handle: 1, Title: "hidden", Enabled: true, ClientWidth: 1, ClientHeight: 1, Minimized: true},
	}
	windows := BuildSnapshot(raws)
	if len(windows) != 0 {
		t.Fatalf("minimized window must be dropped by the visible filter, got %v", windows)
	}
}
