//go:build windows

package winapi

import (
	"sync"
	"syscall"
	"unsafe"

	"github.com/hintmouse/hintmouse/hintassign"
	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/unit"
)

// hintLabelSize is the hint label text size, expressed in scaled pixels so
// it reads at a constant apparent size across monitors of differing DPI,
// the way a gio widget would size its text in sp rather than raw px.
var hintLabelSize = unit.Sp(14)

// monitorConverter implements unit.Converter against one monitor's
// ScaleFactor, the device-independent-to-physical-pixel ratio
// monitor.Monitor already carries for hint placement.
type monitorConverter float64

func (c monitorConverter) Px(v unit.Value) int {
	scale := float64(c)
	if v.U == unit.UnitPx {
		scale = 1
	}
	return int(float64(v.V)*scale + 0.5)
}

// overlayClassName is the RegisterClassExW class every overlay_<monitor_id>
// window shares; CreateWindowExW instances one HWND per monitor from it.
const overlayClassName = "hintmouse-overlay"

var registerOverlayClassOnce sync.Once

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

type paintStruct struct {
	hdc         uintptr
	fErase      int32
	rcPaint     rect
	fRestore    int32
	fIncUpdate  int32
	rgbReserved [32]byte
}

// overlay is one monitor's overlay_<monitor_id> window (spec.md §6): a
// topmost, layered, click-through popup window redrawn whenever its hint
// set, filter prefix or pan offset changes.
type overlay struct {
	monitorID      int
	hwnd           uintptr
	x, y           int
	width, height  int
	scaleFactor    float64
	offsetX        int
	offsetY        int
	hints          []hintassign.Hint
	filter         string
}

// Renderer implements platform.Renderer as one GDI overlay window per
// monitor, grounded on os_windows.go's RegisterClassExW/CreateWindowExW/
// message-loop pattern. Public methods make their Win32 calls directly on
// the calling goroutine, with r.mu guarding the per-monitor overlay state;
// the overlays' window messages are pumped by RunMessageLoop.
type Renderer struct {
	mu       sync.Mutex
	overlays map[int]*overlay
}

// NewRenderer registers the overlay window class. It starts no thread;
// each monitor's overlay window is created by the first call that names
// that monitor.
func NewRenderer() *Renderer {
	registerOverlayClassOnce.Do(registerOverlayClass)
	return &Renderer{overlays: make(map[int]*overlay)}
}

func registerOverlayClass() {
	namePtr, _ := syscall.UTF16PtrFromString(overlayClassName)
	cursor, _, _ := procLoadCursorW.Call(0, idcArrow)
	moduleHandle, _, _ := procGetModuleHandleW.Call(0)
	wc := wndClassEx{
		style:         0,
		lpfnWndProc:   overlayWndProc,
		hInstance:     moduleHandle,
		hCursor:       cursor,
		lpszClassName: namePtr,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
}

var overlayRegistry sync.Map // monitorID -> *overlay, for the WndProc's WM_PAINT handler

func (r *Renderer) ensure(monitorID int) *overlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.overlays[monitorID]; ok {
		return o
	}
	o := &overlay{monitorID: monitorID}
	o.hwnd = createOverlayWindow()
	r.overlays[monitorID] = o
	overlayRegistry.Store(o.hwnd, o)
	return o
}

func createOverlayWindow() uintptr {
	namePtr, _ := syscall.UTF16PtrFromString(overlayClassName)
	titlePtr, _ := syscall.UTF16PtrFromString("hintmouse overlay")
	moduleHandle, _, _ := procGetModuleHandleW.Call(0)
	exStyle := uintptr(wsExLayered | wsExTopmost | wsExTransparent | wsExNoActivate | wsExToolWindow)
	hwnd, _, _ := procCreateWindowExW.Call(
		exStyle,
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(wsPopup),
		0, 0, 0, 0,
		0, 0, moduleHandle, 0,
	)
	procSetLayeredWindowAttrs.Call(hwnd, 0, 255, lwaAlpha)
	return hwnd
}

// SetMonitorLayout repositions each monitor's overlay window over its
// current desktop bounds. session.Controller calls this through an
// optional interface after every RefreshMonitors, since platform.Renderer
// itself has no monitor-geometry parameter.
func (r *Renderer) SetMonitorLayout(monitors []monitor.Monitor) {
	for _, m := range monitors {
		o := r.ensure(m.ID)
		r.mu.Lock()
		o.x, o.y, o.width, o.height = m.X, m.Y, m.Width, m.Height
		o.scaleFactor = m.ScaleFactor
		hwnd := o.hwnd
		r.mu.Unlock()
		procSetWindowPos.Call(hwnd, hwndTopmost,
			uintptr(int32(m.X)), uintptr(int32(m.Y)),
			uintptr(int32(m.Width)), uintptr(int32(m.Height)),
			swpNoActivate)
	}
}

// ShowHints saves hints for get_hint_position_by_text style lookups, clears
// the filter and offset, and shows the monitor's overlay (positioned by
// SetMonitorLayout)
// (spec.md §5's save_hints folded into the show call).
func (r *Renderer) ShowHints(monitorID int, hints []hintassign.Hint) error {
	o := r.ensure(monitorID)
	r.mu.Lock()
	o.hints = hints
	o.filter = ""
	o.offsetX, o.offsetY = 0, 0
	hwnd := o.hwnd
	r.mu.Unlock()
	procShowWindow.Call(hwnd, swShow)
	return invalidate(hwnd)
}

// ShowHints2 replaces the saved hint set with the complete Pass 1 + grid +
// Pass 2 set and repaints; it runs strictly after every monitor's ShowHints
// (enforced by the session controller, not here), so the hints ShowHints
// already displayed stay visible while Pass 2's additions appear.
func (r *Renderer) ShowHints2(monitorID int, hints []hintassign.Hint) error {
	o := r.ensure(monitorID)
	r.mu.Lock()
	o.hints = hints
	hwnd := o.hwnd
	r.mu.Unlock()
	return invalidate(hwnd)
}

// Close destroys every overlay window, for use on process shutdown.
func (r *Renderer) Close() {
	r.mu.Lock()
	overlays := r.overlays
	r.overlays = make(map[int]*overlay)
	r.mu.Unlock()
	for _, o := range overlays {
		procDestroyWindow.Call(o.hwnd)
		overlayRegistry.Delete(o.hwnd)
	}
}

func (r *Renderer) HideHints(monitorID int) error {
	r.mu.Lock()
	o, ok := r.overlays[monitorID]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	procShowWindow.Call(o.hwnd, swHide)
	return nil
}

func (r *Renderer) MoveHints(monitorID int, dx, dy int) error {
	r.mu.Lock()
	o, ok := r.overlays[monitorID]
	if ok {
		o.offsetX += dx
		o.offsetY += dy
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return invalidate(o.hwnd)
}

func (r *Renderer) FilterHints(monitorID int, prefix string) error {
	r.mu.Lock()
	o, ok := r.overlays[monitorID]
	if ok {
		o.filter = prefix
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return invalidate(o.hwnd)
}

func invalidate(hwnd uintptr) error {
	procInvalidateRect.Call(hwnd, 0, 1)
	procUpdateWindow.Call(hwnd)
	return nil
}

// overlayWndProc draws every non-filtered-out hint label each WM_PAINT,
// the way a layered window repaints its whole client area rather than
// diffing regions.
var overlayWndProc = syscall.NewCallback(func(hwnd, msg, wparam, lparam uintptr) uintptr {
	switch uint32(msg) {
	case wmPaint:
		paintOverlay(hwnd)
		return 0
	case wmDestroy, wmClose:
		return 0
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return r
})

func paintOverlay(hwnd uintptr) {
	var ps paintStruct
	hdc, _, _ := procBeginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
	defer procEndPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
	if hdc == 0 {
		return
	}

	v, ok := overlayRegistry.Load(hwnd)
	if !ok {
		return
	}
	o := v.(*overlay)

	scale := o.scaleFactor
	if scale == 0 {
		scale = 1
	}
	fontHeight := monitorConverter(scale).Px(hintLabelSize)
	font, _, _ := procCreateFontW.Call(uintptr(-fontHeight), 0, 0, 0, 700, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	if font != 0 {
		old, _, _ := procSelectObject.Call(hdc, font)
		defer procSelectObject.Call(hdc, old)
		defer procDeleteObject.Call(font)
	}
	procSetBkMode.Call(hdc, bkModeTransparent)
	procSetTextColor.Call(hdc, 0x0000FF00)

	for _, h := range o.hints {
		if o.filter != "" && !hasPrefixFold(h.Label, o.filter) {
			continue
		}
		label, _ := syscall.UTF16PtrFromString(h.Label)
		x := int32(h.X + o.offsetX)
		y := int32(h.Y + o.offsetY)
		procTextOutW.Call(hdc, uintptr(x), uintptr(y), uintptr(unsafe.Pointer(label)), uintptr(len(h.Label)))
	}
}

func hasPrefixFold(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if 'a' <= a && a <= 'z' {
			a -= 'a' - 'A'
		}
		if 'a' <= b && b <= 'z' {
			b -= 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
