package platform

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	// EventWindowFocus and EventWindowBlur are emitted by the frontend on
	// window focus changes; the host runtime has no focus query of its own.
	EventWindowFocus = "window:focus"
	EventWindowBlur  = "window:blur"

	mainWindowID = "main"
)

// ErrNoHostContext is returned when the host runtime context is missing
var ErrNoHostContext = errors.New("host runtime context is not available")

// HostRuntime is the subset of the Wails runtime used for the main window
type HostRuntime interface {
	WindowMinimise(ctx context.Context)
	WindowIsMinimised(ctx context.Context) bool
	WindowHide(ctx context.Context)
	WindowShow(ctx context.Context)
	Quit(ctx context.Context)
	EventsOn(ctx context.Context, name string, callback func(optionalData ...interface{})) func()
}

type wailsRuntime struct{}

func (wailsRuntime) WindowMinimise(ctx context.Context) { runtime.WindowMinimise(ctx) }
func (wailsRuntime) WindowIsMinimised(ctx context.Context) bool {
	return runtime.WindowIsMinimised(ctx)
}
func (wailsRuntime) WindowHide(ctx context.Context) { runtime.WindowHide(ctx) }
func (wailsRuntime) WindowShow(ctx context.Context) { runtime.WindowShow(ctx) }
func (wailsRuntime) Quit(ctx context.Context)       { runtime.Quit(ctx) }

func (wailsRuntime) EventsOn(ctx context.Context, name string, callback func(optionalData ...interface{})) func() {
	return runtime.EventsOn(ctx, name, callback)
}

// HostWindowManager exposes the host shell's single main window
type HostWindowManager struct {
	ctx     context.Context
	rt      HostRuntime
	hidden  atomic.Bool
	focused atomic.Bool
	cancels []func()
}

// NewHostWindowManager binds to the Wails runtime carried by ctx. ctx must be
// the context handed to the host's OnStartup hook.
func NewHostWindowManager(ctx context.Context) (*HostWindowManager, error) {
	// The Wails runtime terminates the process when called with a context it
	// did not create, so refuse early.
	if ctx == nil || ctx.Value("frontend") == nil {
		return nil, ErrNoHostContext
	}
	return NewHostWindowManagerWith(ctx, wailsRuntime{}), nil
}

// NewHostWindowManagerWith uses an explicit runtime implementation
func NewHostWindowManagerWith(ctx context.Context, rt HostRuntime) *HostWindowManager {
	m := &HostWindowManager{ctx: ctx, rt: rt}
	m.focused.Store(true)
	m.cancels = append(m.cancels,
		rt.EventsOn(ctx, EventWindowFocus, func(...interface{}) { m.focused.Store(true) }),
		rt.EventsOn(ctx, EventWindowBlur, func(...interface{}) { m.focused.Store(false) }),
	)
	return m
}

// Windows returns the main window; the host shell has exactly one
func (m *HostWindowManager) Windows() ([]Window, error) {
	w, err := m.Main()
	if err != nil {
		return nil, err
	}
	return []Window{w}, nil
}

// Main returns the host's main window
func (m *HostWindowManager) Main() (Window, error) {
	if m == nil || m.ctx == nil {
		return nil, ErrNoHostContext
	}
	return &hostWindow{m: m}, nil
}

// Hide hides the main window and records it as not visible
func (m *HostWindowManager) Hide() {
	m.rt.WindowHide(m.ctx)
	m.hidden.Store(true)
}

// Show shows the main window and records it as visible
func (m *HostWindowManager) Show() {
	m.rt.WindowShow(m.ctx)
	m.hidden.Store(false)
}

// Close drops the focus listeners
func (m *HostWindowManager) Close() error {
	for _, cancel := range m.cancels {
		if cancel != nil {
			cancel()
		}
	}
	m.cancels = nil
	return nil
}

type hostWindow struct {
	m *HostWindowManager
}

func (w *hostWindow) ID() string { return mainWindowID }

func (w *hostWindow) Minimize() error {
	w.m.rt.WindowMinimise(w.m.ctx)
	return nil
}

// Close quits the host; closing the only window ends the application
func (w *hostWindow) Close() error {
	w.m.rt.Quit(w.m.ctx)
	return nil
}

func (w *hostWindow) State() (WindowState, error) {
	visible := !w.m.hidden.Load() && !w.m.rt.WindowIsMinimised(w.m.ctx)
	return WindowState{
		Visible: visible,
		Focused: visible && w.m.focused.Load(),
	}, nil
}
