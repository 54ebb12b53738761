//go:build windows

package winapi

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/hintmouse/hintmouse/uielement"
	"github.com/hintmouse/hintmouse/winmodel"
)

// callStdcall invokes a COM vtable entry through syscall.SyscallN, which
// (unlike LazyProc.Call) accepts any number of arguments — vtable calls
// here range from one argument (Release) to four (FindAll).
func callStdcall(fn uintptr, args []uintptr) (uintptr, uintptr, error) {
	r1, r2, errno := syscall.SyscallN(fn, args...)
	if errno != 0 {
		return r1, r2, errno
	}
	return r1, r2, nil
}

// CLSID_CUIAutomation / IID_IUIAutomation, grounded on ui_automation.rs's
// CoCreateInstance::<_, IUIAutomation>(&CUIAutomation, None, CLSCTX_ALL).
var (
	clsidCUIAutomation = windows.GUID{Data1: 0xff48dba4, Data2: 0x60ef, Data3: 0x4201,
		Data4: [8]byte{0xaa, 0x87, 0x54, 0x10, 0x3e, 0xef, 0x59, 0x4e}}
	iidIUIAutomation = windows.GUID{Data1: 0x30cbe57d, Data2: 0xd9d0, Data3: 0x452a,
		Data4: [8]byte{0xab, 0x13, 0x7a, 0xc5, 0xac, 0x48, 0x25, 0xee}}
)

const (
	clsctxInprocServer = 0x1
	clsctxLocalServer  = 0x4
	clsctxAll          = clsctxInprocServer | clsctxLocalServer

	treeScopeSubtree = 0x0004
)

// comVtable is the common layout every COM interface pointer begins with:
// a pointer to a vtable whose first three slots are IUnknown's.
type comObject struct {
	vtable *uintptr
}

func (o *comObject) call(slot int, args ...uintptr) (uintptr, uintptr, error) {
	fn := *(*uintptr)(unsafe.Pointer(uintptr(unsafe.Pointer(o.vtable)) + uintptr(slot)*unsafe.Sizeof(uintptr(0))))
	full := append([]uintptr{uintptr(unsafe.Pointer(o))}, args...)
	return callStdcall(fn, full)
}

func (o *comObject) release() {
	o.call(2) // IUnknown::Release
}

// Accessibility implements platform.Accessibility via IUIAutomation's
// FindAll(TreeScope_Subtree, TrueCondition), grounded on
// ui_automation.rs's UIAutomationRequest. Each call creates and tears down
// its own COM apartment objects; CoInitializeEx must already have been
// called on the calling thread, as InitCOM does (apartment-threaded) in
// cmd/hintmouse before the keyboard hook is installed.
type Accessibility struct{}

func (Accessibility) AccessibilitySubtree(window winmodel.Handle) ([]uielement.RawElement, error) {
	automation, err := createUIAutomation()
	if err != nil {
		return nil, err
	}
	defer automation.release()

	condition, err := automation.createTrueCondition()
	if err != nil {
		return nil, err
	}
	defer condition.release()

	root, err := automation.elementFromHandle(uintptr(window))
	if err != nil {
		return nil, err
	}
	defer root.release()

	elements, err := root.findAll(treeScopeSubtree, condition)
	if err != nil {
		return nil, err
	}
	defer elements.release()

	return elements.collect(), nil
}

func createUIAutomation() (*uiAutomation, error) {
	var obj *comObject
	r, _, err := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&clsidCUIAutomation)), 0, clsctxAll,
		uintptr(unsafe.Pointer(&iidIUIAutomation)), uintptr(unsafe.Pointer(&obj)))
	if r != 0 {
		return nil, fmt.Errorf("CoCreateInstance(CUIAutomation): %w (hresult %#x)", err, r)
	}
	return &uiAutomation{obj}, nil
}

type uiAutomation struct{ *comObject }

// vtable slot indices below follow each interface's declared member order
// after IUnknown's three slots (QueryInterface, AddRef, Release).
const (
	slotIUIAutomationElementFromHandle               = 9
	slotIUIAutomationCreateTrueCondition              = 19
	slotIUIAutomationElementFindAll                  = 4 // on IUIAutomationElement
	slotIUIAutomationElementCurrentControlType       = 7
	slotIUIAutomationElementCurrentIsEnabled         = 17
	slotIUIAutomationElementCurrentIsOffscreen       = 30
	slotIUIAutomationElementCurrentBoundingRectangle = 31
	slotIUIAutomationElementArrayLength              = 3
	slotIUIAutomationElementArrayGetElement          = 4
)

func (a *uiAutomation) elementFromHandle(hwnd uintptr) (*uiaElement, error) {
	var el *comObject
	r, _, err := a.call(slotIUIAutomationElementFromHandle, hwnd, uintptr(unsafe.Pointer(&el)))
	if r != 0 {
		return nil, fmt.Errorf("IUIAutomation::ElementFromHandle: %w (hresult %#x)", err, r)
	}
	return &uiaElement{el}, nil
}

func (a *uiAutomation) createTrueCondition() (*comObject, error) {
	var cond *comObject
	r, _, err := a.call(slotIUIAutomationCreateTrueCondition, uintptr(unsafe.Pointer(&cond)))
	if r != 0 {
		return nil, fmt.Errorf("IUIAutomation::CreateTrueCondition: %w (hresult %#x)", err, r)
	}
	return cond, nil
}

type uiaElement struct{ *comObject }

func (e *uiaElement) findAll(scope int, condition *comObject) (*uiaElementArray, error) {
	var arr *comObject
	r, _, err := e.call(slotIUIAutomationElementFindAll, uintptr(scope),
		uintptr(unsafe.Pointer(condition)), uintptr(unsafe.Pointer(&arr)))
	if r != 0 {
		return nil, fmt.Errorf("IUIAutomationElement::FindAll: %w (hresult %#x)", err, r)
	}
	return &uiaElementArray{arr}, nil
}

type uiaElementArray struct{ *comObject }

func (a *uiaElementArray) length() int {
	var n int32
	a.call(slotIUIAutomationElementArrayLength, uintptr(unsafe.Pointer(&n)))
	return int(n)
}

func (a *uiaElementArray) element(i int) (*uiaElement, error) {
	var el *comObject
	r, _, err := a.call(slotIUIAutomationElementArrayGetElement, uintptr(i), uintptr(unsafe.Pointer(&el)))
	if r != 0 {
		return nil, fmt.Errorf("IUIAutomationElementArray::GetElement: %w (hresult %#x)", err, r)
	}
	return &uiaElement{el}, nil
}

// uiaRect mirrors the UiaRect/RECT struct CurrentBoundingRectangle fills:
// a double-precision (left, top, width, height) quad as COM Automation
// marshals it, not a plain Win32 RECT.
type uiaRect struct {
	left, top, width, height float64
}

func (e *uiaElement) currentControlType() (int, bool) {
	var id int32
	r, _, _ := e.call(slotIUIAutomationElementCurrentControlType, uintptr(unsafe.Pointer(&id)))
	return int(id), r == 0
}

func (e *uiaElement) currentIsEnabled() bool {
	var b int32
	r, _, _ := e.call(slotIUIAutomationElementCurrentIsEnabled, uintptr(unsafe.Pointer(&b)))
	return r == 0 && b != 0
}

func (e *uiaElement) currentIsOffscreen() bool {
	var b int32
	r, _, _ := e.call(slotIUIAutomationElementCurrentIsOffscreen, uintptr(unsafe.Pointer(&b)))
	return r == 0 && b != 0
}

func (e *uiaElement) currentBoundingRectangle() (uiaRect, bool) {
	var rc uiaRect
	r, _, _ := e.call(slotIUIAutomationElementCurrentBoundingRectangle, uintptr(unsafe.Pointer(&rc)))
	return rc, r == 0
}

// collect walks every element in the array the way convert_ui_automation
// does: drop disabled/off-screen nodes, keep control_type/rect, and leave
// dedup-by-position and type-resolution to uielement.Collect — this layer
// only needs to hand back RawElements, not perform the z-priority
// overwrite logic itself.
func (a *uiaElementArray) collect() []uielement.RawElement {
	n := a.length()
	out := make([]uielement.RawElement, 0, n)
	for i := 0; i < n; i++ {
		el, err := a.element(i)
		if err != nil {
			continue
		}
		if !el.currentIsEnabled() || el.currentIsOffscreen() {
			el.release()
			continue
		}
		controlType, ok := el.currentControlType()
		if !ok {
			el.release()
			continue
		}
		rc, ok := el.currentBoundingRectangle()
		el.release()
		if !ok || rc.width <= 0 || rc.height <= 0 {
			continue
		}
		out = append(out, uielement.RawElement{
			ControlType: controlType,
			Enabled:     true,
			Offscreen:   false,
			X:           int(rc.left),
			Y:           int(rc.top),
			Width:       int(rc.width),
			Height:      int(rc.height),
		})
	}
	return out
}
