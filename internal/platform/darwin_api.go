//go:build darwin && !ios

package platform

// NewNativeWindowManager is not available on macOS: window enumeration needs
// AppKit through cgo. The host window manager covers the main window.
func NewNativeWindowManager() (WindowManager, error) {
	return nil, ErrNativeUnsupported
}
