//go:build windows

package winapi

import (
	"context"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/hintmouse/hintmouse/monitor"
	"github.com/hintmouse/hintmouse/winmodel"
)

// Enumerator implements platform.Enumerator over EnumWindows/
// EnumDisplayMonitors, grounded on the enum_window_proc walk in
// window.rs: EnumWindows already reports top-level windows topmost-first,
// so the z-order GetTopWindow/GetWindow walk the original repeats per
// window is unnecessary here — winmodel.BuildSnapshot assigns ZIndex from
// this call's reported order.
type Enumerator struct{}

func (Enumerator) EnumerateWindows(ctx context.Context) ([]winmodel.RawWindowInfo, error) {
	var windows []winmodel.RawWindowInfo
	cb := syscall.NewCallback(func(hwnd syscall.Handle, lparam uintptr) uintptr {
		info, ok := describeWindow(hwnd)
		if ok {
			windows = append(windows, info)
		}
		return 1 // continue enumeration
	})
	r, _, err := procEnumWindows.Call(cb, 0)
	if r == 0 {
		return nil, err
	}
	return windows, nil
}

func describeWindow(hwnd syscall.Handle) (winmodel.RawWindowInfo, bool) {
	var r rect
	ret, _, _ := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return winmodel.RawWindowInfo{}, false
	}
	visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	if !bool32(visible) {
		return winmodel.RawWindowInfo{}, false
	}

	var titleBuf, classBuf [512]uint16
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&titleBuf[0])), uintptr(len(titleBuf)))
	procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&classBuf[0])), uintptr(len(classBuf)))
	title := windows.UTF16ToString(titleBuf[:])
	className := windows.UTF16ToString(classBuf[:])

	exstyle, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(gwlExStyle))
	enabled, _, _ := procIsWindowEnabled.Call(uintptr(hwnd))
	iconic, _, _ := procIsIconic.Call(uintptr(hwnd))

	// The Client* fields carry GetWindowRect's outer frame rectangle (title
	// bar and borders included); the client area is not computed.
	return winmodel.RawWindowInfo{
		Handle:        winmodel.Handle(hwnd),
		ClientX:       int(r.left),
		ClientY:       int(r.top),
		ClientWidth:   r.width(),
		ClientHeight:  r.height(),
		Title:         title,
		ClassName:     className,
		Enabled:       bool32(enabled),
		Minimized:     bool32(iconic),
		IsToolWindow:  exstyle&wsExToolWindow != 0,
		IsTransparent: exstyle&wsExTransparent != 0,
		IsSystemShell: className == "Windows.UI.Core.CoreWindow" || className == "Progman",
	}, true
}

// monitorInfoEx mirrors MONITORINFOEXW's fixed-size prefix; the device
// name suffix is unused here.
type monitorInfoEx struct {
	cbSize    uint32
	rcMonitor rect
	rcWork    rect
	flags     uint32
	device    [32]uint16
}

func (Enumerator) EnumerateMonitors(ctx context.Context) ([]monitor.RawMonitor, error) {
	var monitors []monitor.RawMonitor
	cb := syscall.NewCallback(func(hMonitor syscall.Handle, hdc syscall.Handle, lprc uintptr, lparam uintptr) uintptr {
		var mi monitorInfoEx
		mi.cbSize = uint32(unsafe.Sizeof(mi))
		ret, _, _ := procGetMonitorInfoW.Call(uintptr(hMonitor), uintptr(unsafe.Pointer(&mi)))
		if ret == 0 {
			return 1
		}
		scale := monitorScaleFactor(hMonitor)
		monitors = append(monitors, monitor.RawMonitor{
			X:           int(mi.rcMonitor.left),
			Y:           int(mi.rcMonitor.top),
			Width:       mi.rcMonitor.width(),
			Height:      mi.rcMonitor.height(),
			ScaleFactor: scale,
		})
		return 1
	})
	r, _, err := procEnumDisplayMonitors.Call(0, 0, cb, 0)
	if r == 0 {
		return nil, err
	}
	return monitors, nil
}

// monitorScaleFactor reads the monitor's effective DPI via shcore's
// GetDpiForMonitor and converts it to a scale factor against the 96 dpi
// baseline, falling back to 1.0 if the call fails (pre-8.1 systems, or a
// disconnected monitor handle).
func monitorScaleFactor(hMonitor syscall.Handle) float64 {
	var dpiX, dpiY uint32
	ret, _, _ := procGetDpiForMonitor.Call(uintptr(hMonitor), mdtEffectiveDPI,
		uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY)))
	if ret != 0 || dpiX == 0 {
		return 1.0
	}
	return float64(dpiX) / 96.0
}
