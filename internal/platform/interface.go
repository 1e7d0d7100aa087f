package platform

import "errors"

// ErrNoWindows is returned by WindowManager.Main when the application owns no window
var ErrNoWindows = errors.New("application has no windows")

// ErrNativeUnsupported is returned by NewNativeWindowManager on platforms
// without a native window backend
var ErrNativeUnsupported = errors.New("native window enumeration is not supported on this platform")

// WindowState is a point-in-time snapshot of one window's presence on screen
type WindowState struct {
	Visible bool `json:"visible"`
	Focused bool `json:"focused"`
}

// Window is one top-level window owned by the application
type Window interface {
	ID() string
	Minimize() error
	Close() error
	State() (WindowState, error)
}

// WindowManager enumerates the application's own windows
type WindowManager interface {
	Windows() ([]Window, error)
	Main() (Window, error)
}

// Closer is implemented by window managers that hold a window-system connection
type Closer interface {
	Close() error
}
