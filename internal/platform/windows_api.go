//go:build windows

package platform

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	user32          = windows.NewLazySystemDLL("user32.dll")
	procIsIconic    = user32.NewProc("IsIconic")
	procGetWindow   = user32.NewProc("GetWindow")
	procPostMessage = user32.NewProc("PostMessageW")
)

const (
	swMinimize = 6
	gwOwner    = 4
	wmClose    = 0x0010
)

// EnumWindows callbacks are a limited resource, so a single callback is
// shared and results are gathered under enumMu.
var (
	enumMu       sync.Mutex
	enumPID      uint32
	enumFound    []windows.HWND
	enumCallback = syscall.NewCallback(enumWindowsProc)
)

func enumWindowsProc(hwnd uintptr, _ uintptr) uintptr {
	h := windows.HWND(hwnd)

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(h, &pid); err != nil || pid != enumPID {
		return 1
	}

	// Skip owned popups and the invisible helper windows the webview creates.
	if owner, _, _ := procGetWindow.Call(hwnd, gwOwner); owner != 0 {
		return 1
	}
	if !windows.IsWindowVisible(h) && !isIconic(h) {
		return 1
	}

	enumFound = append(enumFound, h)
	return 1
}

func isIconic(h windows.HWND) bool {
	ret, _, _ := procIsIconic.Call(uintptr(h))
	return ret != 0
}

// Win32WindowManager enumerates this process's top-level windows
type Win32WindowManager struct {
	pid uint32
}

// NewWin32WindowManager creates a window manager for the current process
func NewWin32WindowManager() *Win32WindowManager {
	return &Win32WindowManager{pid: windows.GetCurrentProcessId()}
}

// NewNativeWindowManager returns the Win32 window manager on Windows
func NewNativeWindowManager() (WindowManager, error) {
	return NewWin32WindowManager(), nil
}

// Windows lists top-level, unowned, visible or minimised windows of this process
func (m *Win32WindowManager) Windows() ([]Window, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumPID = m.pid
	enumFound = enumFound[:0]
	if err := windows.EnumWindows(enumCallback, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows failed: %w", err)
	}

	sort.Slice(enumFound, func(i, j int) bool { return enumFound[i] < enumFound[j] })

	out := make([]Window, 0, len(enumFound))
	for _, h := range enumFound {
		out = append(out, &win32Window{hwnd: h})
	}
	return out, nil
}

// Main returns the foreground window when it is ours, else the first one found
func (m *Win32WindowManager) Main() (Window, error) {
	list, err := m.Windows()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoWindows
	}

	fg := windows.GetForegroundWindow()
	for _, w := range list {
		if w.(*win32Window).hwnd == fg {
			return w, nil
		}
	}
	return list[0], nil
}

type win32Window struct {
	hwnd windows.HWND
}

func (w *win32Window) ID() string {
	return "0x" + strconv.FormatUint(uint64(w.hwnd), 16)
}

func (w *win32Window) Minimize() error {
	windows.ShowWindow(w.hwnd, swMinimize)
	if !isIconic(w.hwnd) {
		return fmt.Errorf("window %s did not minimise", w.ID())
	}
	return nil
}

// Close posts WM_CLOSE so the owning thread runs its normal close path
func (w *win32Window) Close() error {
	ret, _, callErr := procPostMessage.Call(uintptr(w.hwnd), wmClose, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostMessage(WM_CLOSE) failed: %w", callErr)
	}
	return nil
}

func (w *win32Window) State() (WindowState, error) {
	visible := windows.IsWindowVisible(w.hwnd) && !isIconic(w.hwnd)
	return WindowState{
		Visible: visible,
		Focused: windows.GetForegroundWindow() == w.hwnd,
	}, nil
}
