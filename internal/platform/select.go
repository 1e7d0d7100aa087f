package platform

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Backend names a window-manager implementation
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendHost   Backend = "host"
	BackendNative Backend = "native"
)

// Valid reports whether b is a known backend name
func (b Backend) Valid() bool {
	switch b {
	case BackendAuto, BackendHost, BackendNative:
		return true
	}
	return false
}

// swapped in tests
var (
	newNativeManager = NewNativeWindowManager
	newHostManager   = func(ctx context.Context) (WindowManager, error) { return NewHostWindowManager(ctx) }
)

// NewWindowManager builds the window manager for backend. Auto prefers the
// native backend, which sees every window of the process, and falls back to
// the host's main window when the session is Wayland or the native backend
// finds none of our windows. The returned Backend is the one actually chosen.
func NewWindowManager(ctx context.Context, backend Backend) (WindowManager, Backend, error) {
	switch backend {
	case BackendHost:
		m, err := newHostManager(ctx)
		return m, BackendHost, err
	case BackendNative:
		m, err := newNativeManager()
		return m, BackendNative, err
	case BackendAuto, "":
		return autoWindowManager(ctx)
	default:
		return nil, backend, fmt.Errorf("unknown window backend %q", backend)
	}
}

func autoWindowManager(ctx context.Context) (WindowManager, Backend, error) {
	if isWaylandSession() {
		m, err := newHostManager(ctx)
		return m, BackendHost, err
	}

	native, err := newNativeManager()
	if err != nil {
		m, err := newHostManager(ctx)
		return m, BackendHost, err
	}
	if windows, err := native.Windows(); err == nil && len(windows) > 0 {
		return native, BackendNative, nil
	}

	// XWayland or a not yet mapped window: the native view is empty
	host, err := newHostManager(ctx)
	if err != nil {
		return native, BackendNative, nil
	}
	if c, ok := native.(Closer); ok {
		_ = c.Close()
	}
	return host, BackendHost, nil
}

// isWaylandSession reports whether the desktop session runs on Wayland, where
// X11 only sees XWayland clients.
func isWaylandSession() bool {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	return strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland")
}
