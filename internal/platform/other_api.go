//go:build !(linux && !android) && !windows && !(darwin && !ios)

package platform

// NewNativeWindowManager has no backend on this platform
func NewNativeWindowManager() (WindowManager, error) {
	return nil, ErrNativeUnsupported
}
