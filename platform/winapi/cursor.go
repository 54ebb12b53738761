//go:build windows

package winapi

// mouse_event flags, matching mouse.rs's MOUSEEVENTF_* constants: the
// original dispatches relative moves and clicks through mouse_event
// rather than SendInput, so this does too.
const (
	mouseEventMove       = 0x0001
	mouseEventLeftDown   = 0x0002
	mouseEventLeftUp     = 0x0004
	mouseEventRightDown  = 0x0008
	mouseEventRightUp    = 0x0010
	mouseEventMiddleDown = 0x0020
	mouseEventMiddleUp   = 0x0040
	mouseEventWheel      = 0x0800
	mouseEventHWheel     = 0x1000
)

// Cursor implements platform.Cursor via SetCursorPos for absolute moves
// and mouse_event for everything else, grounded on mouse.rs.
type Cursor struct{}

func (Cursor) SetCursorPosition(globalX, globalY int) error {
	r, _, err := procSetCursorPos.Call(uintptr(int32(globalX)), uintptr(int32(globalY)))
	if r == 0 {
		return err
	}
	return nil
}

func (Cursor) MoveRelative(dx, dy int) error {
	procMouseEvent.Call(mouseEventMove, uintptr(int32(dx)), uintptr(int32(dy)), 0, 0)
	return nil
}

func (Cursor) ClickLeft() error {
	procMouseEvent.Call(mouseEventLeftDown, 0, 0, 0, 0)
	procMouseEvent.Call(mouseEventLeftUp, 0, 0, 0, 0)
	return nil
}

func (Cursor) ClickRight() error {
	procMouseEvent.Call(mouseEventRightDown, 0, 0, 0, 0)
	procMouseEvent.Call(mouseEventRightUp, 0, 0, 0, 0)
	return nil
}

func (Cursor) ClickMiddle() error {
	procMouseEvent.Call(mouseEventMiddleDown, 0, 0, 0, 0)
	procMouseEvent.Call(mouseEventMiddleUp, 0, 0, 0, 0)
	return nil
}

func (Cursor) LeftDown() error {
	procMouseEvent.Call(mouseEventLeftDown, 0, 0, 0, 0)
	return nil
}

func (Cursor) LeftUp() error {
	procMouseEvent.Call(mouseEventLeftUp, 0, 0, 0, 0)
	return nil
}

// Wheel scrolls vertically through dy and horizontally through dx, each
// unit worth one WHEEL_DELTA (120), matching the scaling mouse.rs applies
// before calling mouse_event with MOUSEEVENTF_WHEEL/HWHEEL.
func (Cursor) Wheel(dx, dy int) error {
	const wheelDelta = 120
	if dy != 0 {
		procMouseEvent.Call(mouseEventWheel, 0, 0, uintptr(int32(dy*wheelDelta)), 0)
	}
	if dx != 0 {
		procMouseEvent.Call(mouseEventHWheel, 0, 0, uintptr(int32(dx*wheelDelta)), 0)
	}
	return nil
}
