//go:build windows

package winapi

import (
	"syscall"
	"unicode"
	"unsafe"

	"github.com/hintmouse/hintmouse/keyboard"
	"github.com/hintmouse/hintmouse/platform"
)

// oemVirtualKeys maps the fixed OEM-punctuation virtual-key codes hook.rs
// falls back to once the configured table and the digit/letter ToUnicode
// decode have both missed.
var oemVirtualKeys = map[uintptr]string{
	0xBB: "=", // VK_OEM_PLUS
	0xBD: "-", // VK_OEM_MINUS
	0xBC: ",", // VK_OEM_COMMA
	0xBE: ".", // VK_OEM_PERIOD
	0xBA: ";", // VK_OEM_1
	0xBF: "/", // VK_OEM_2
	0xC0: "`", // VK_OEM_3
	0xDB: "[", // VK_OEM_4
	0xDC: "\\", // VK_OEM_5
	0xDD: "]", // VK_OEM_6
	0xDE: "'", // VK_OEM_7
}

type kbdllhookstruct struct {
	vkCode    uint32
	scanCode  uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// KeyHook implements platform.KeyHook via a WH_KEYBOARD_LL hook, decoding
// each virtual-key code the way hook.rs does: first the configured name
// table, then GetKeyboardState+ToUnicode for digit/letter keys
// (layout-aware), then the fixed OEM table. A process installs at most
// one KeyHook (spec.md §5's single global hotkey session), so the active
// instance is kept in a package-level variable the hook trampoline reads;
// SetWindowsHookExW's callback cannot carry closure state of its own.
type KeyHook struct {
	Table  map[int]keyboard.Name
	hookID uintptr
}

var activeKeyHook *KeyHook
var activeKeyHookCallback func(platform.KeyEvent) bool

func (h *KeyHook) InstallKeyHook(cb func(platform.KeyEvent) bool) error {
	activeKeyHook = h
	activeKeyHookCallback = cb
	moduleHandle, _, _ := procGetModuleHandleW.Call(0)
	r, _, err := procSetWindowsHookExW.Call(whKeyboardLL, keyboardHookProc, moduleHandle, 0)
	if r == 0 {
		return err
	}
	h.hookID = r
	return nil
}

func (h *KeyHook) UninstallKeyHook() error {
	if h.hookID == 0 {
		return nil
	}
	r, _, err := procUnhookWindowsHookEx.Call(h.hookID)
	h.hookID = 0
	activeKeyHook = nil
	activeKeyHookCallback = nil
	if r == 0 {
		return err
	}
	return nil
}

// decode resolves a virtual-key code to a logical name, or false if the
// event should pass through untouched (spec.md §6's lookup order).
func (h *KeyHook) decode(vk, scanCode uintptr) (keyboard.Name, bool) {
	if name, ok := h.Table[int(vk)]; ok {
		return name, true
	}
	if (vk >= 0x30 && vk <= 0x39) || (vk >= 0x41 && vk <= 0x5A) {
		if r, ok := toUnicodeChar(vk, scanCode); ok {
			return keyboard.Name(unicode.ToUpper(r)), true
		}
		return "", false
	}
	if s, ok := oemVirtualKeys[vk]; ok {
		return keyboard.Name(s), true
	}
	return "", false
}

// toUnicodeChar calls GetKeyboardState+ToUnicode the way hook.rs's digit
// and letter branches do, translating a virtual key through the active
// keyboard layout instead of assuming a US layout.
func toUnicodeChar(vk, scanCode uintptr) (rune, bool) {
	var state [256]byte
	ret, _, _ := procGetKeyboardState.Call(uintptr(unsafe.Pointer(&state[0])))
	if ret == 0 {
		return 0, false
	}
	var buf [2]uint16
	n, _, _ := procToUnicode.Call(vk, scanCode,
		uintptr(unsafe.Pointer(&state[0])),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)), 0)
	if int32(n) <= 0 {
		return 0, false
	}
	return rune(buf[0]), true
}

// keyboardHookProc is the single WH_KEYBOARD_LL trampoline every KeyHook
// installation shares, matching keyboard_hook_proc's signature in hook.rs.
var keyboardHookProc = syscall.NewCallback(func(code, wparam, lparam uintptr) uintptr {
	h := activeKeyHook
	if int32(code) < 0 || h == nil {
		return callNextHook(code, wparam, lparam)
	}
	info := (*kbdllhookstruct)(unsafe.Pointer(lparam))
	isDown := wparam == wmKeyDown
	name, ok := h.decode(uintptr(info.vkCode), uintptr(info.scanCode))
	if !ok {
		return callNextHook(code, wparam, lparam)
	}
	if cb := activeKeyHookCallback; cb != nil && cb(platform.KeyEvent{Name: name, IsDown: isDown}) {
		return 1
	}
	return callNextHook(code, wparam, lparam)
})

func callNextHook(code, wparam, lparam uintptr) uintptr {
	r, _, _ := procCallNextHookEx.Call(0, code, wparam, lparam)
	return r
}
