//go:build windows

// Package winapi implements the platform capability interfaces (spec.md
// §6) for Windows, using raw user32/kernel32/shcore procedures the way
// app/internal/window/os_windows.go binds its own Win32 calls: a
// golang.org/x/sys/windows.NewLazySystemDLL per library and a NewProc per
// entry point, called through uintptr arguments.
package winapi

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	shcore   = windows.NewLazySystemDLL("shcore.dll")

	procEnumWindows         = user32.NewProc("EnumWindows")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
	procGetWindowLongW      = user32.NewProc("GetWindowLongW")
	procIsWindowEnabled     = user32.NewProc("IsWindowEnabled")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procIsIconic            = user32.NewProc("IsIconic")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procSetCursorPos        = user32.NewProc("SetCursorPos")
	procMouseEvent          = user32.NewProc("mouse_event")
	procGetKeyboardState    = user32.NewProc("GetKeyboardState")
	procToUnicode           = user32.NewProc("ToUnicode")
	procGetDpiForMonitor    = shcore.NewProc("GetDpiForMonitor")

	procRegisterClassExW      = user32.NewProc("RegisterClassExW")
	procCreateWindowExW       = user32.NewProc("CreateWindowExW")
	procDestroyWindow         = user32.NewProc("DestroyWindow")
	procDefWindowProcW        = user32.NewProc("DefWindowProcW")
	procShowWindow            = user32.NewProc("ShowWindow")
	procSetWindowPos          = user32.NewProc("SetWindowPos")
	procUpdateWindow          = user32.NewProc("UpdateWindow")
	procInvalidateRect        = user32.NewProc("InvalidateRect")
	procBeginPaint            = user32.NewProc("BeginPaint")
	procEndPaint              = user32.NewProc("EndPaint")
	procSetLayeredWindowAttrs = user32.NewProc("SetLayeredWindowAttributes")
	procLoadCursorW           = user32.NewProc("LoadCursorW")

	gdi32 = windows.NewLazySystemDLL("gdi32.dll")

	procCreateFontW  = gdi32.NewProc("CreateFontW")
	procSelectObject = gdi32.NewProc("SelectObject")
	procDeleteObject = gdi32.NewProc("DeleteObject")
	procSetBkMode    = gdi32.NewProc("SetBkMode")
	procSetTextColor = gdi32.NewProc("SetTextColor")
	procTextOutW     = gdi32.NewProc("TextOutW")

	ole32 = windows.NewLazySystemDLL("ole32.dll")

	procCoInitializeEx   = ole32.NewProc("CoInitializeEx")
	procCoUninitialize   = ole32.NewProc("CoUninitialize")
	procCoCreateInstance = ole32.NewProc("CoCreateInstance")
)

const coinitApartmentThreaded = 0x2

// InitCOM initializes COM on the calling OS thread in apartment-threaded
// mode, matching main.rs's CoInitializeEx(None, COINIT_APARTMENTTHREADED)
// call before installing the keyboard hook. Callers must run it on the
// same locked OS thread that will later call Accessibility methods and
// pump the message loop.
func InitCOM() error {
	r, _, err := procCoInitializeEx.Call(0, coinitApartmentThreaded)
	if int32(r) < 0 {
		return err
	}
	return nil
}

// UninitCOM undoes InitCOM on process shutdown.
func UninitCOM() {
	procCoUninitialize.Call()
}

// RunMessageLoop pumps the calling thread's message queue until GetMessageW
// returns 0 (WM_QUIT), the way os_windows.go's windowLoop does. The
// keyboard hook and every overlay window only deliver messages to the
// thread that installed them, so this must run on the thread InstallKeyHook
// and NewRenderer's window creation ran on.
func RunMessageLoop() {
	var m struct {
		hwnd     uintptr
		message  uint32
		wParam   uintptr
		lParam   uintptr
		time     uint32
		pt       [2]int32
		lPrivate uint32
	}
	for {
		r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

type rect struct {
	left, top, right, bottom int32
}

func (r rect) width() int  { return int(r.right - r.left) }
func (r rect) height() int { return int(r.bottom - r.top) }

const (
	gwlExStyle      = -20
	wsExToolWindow  = 0x00000080
	wsExTransparent = 0x00000020
	wmKeyDown       = 0x0100
	whKeyboardLL    = 13
	mdtEffectiveDPI = 0

	wsPopup           = 0x80000000
	wsExLayered       = 0x00080000
	wsExTopmost       = 0x00000008
	wsExNoActivate    = 0x08000000
	swShow            = 5
	swHide            = 0
	lwaAlpha          = 0x00000002
	bkModeTransparent = 1
	hwndTopmost       = ^uintptr(0) // -1 as HWND
	swpNoActivate     = 0x0010
	wmPaint           = 0x000F
	wmDestroy         = 0x0002
	wmClose           = 0x0010
	idcArrow          = 32512
)

// bool32 converts a Win32 BOOL return value.
func bool32(r uintptr) bool { return r != 0 }
