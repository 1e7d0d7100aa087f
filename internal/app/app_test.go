package app

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/config"
	"appcontrol/internal/platform"
	"appcontrol/internal/testutils"
)

type emitted struct {
	name    string
	payload map[string]any
}

type fakeEvents struct {
	mu      sync.Mutex
	emitted []emitted
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{}
}

func (f *fakeEvents) EventsEmit(_ context.Context, name string, data ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var payload map[string]any
	if len(data) > 0 {
		payload, _ = data[0].(map[string]any)
	}
	f.emitted = append(f.emitted, emitted{name: name, payload: payload})
}

func (f *fakeEvents) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.emitted))
	for _, e := range f.emitted {
		out = append(out, e.name)
	}
	return out
}

type stubWindow struct {
	minimized int
	hidden    atomic.Bool
}

func (w *stubWindow) ID() string      { return "main" }
func (w *stubWindow) Minimize() error { w.minimized++; return nil }
func (w *stubWindow) Close() error    { return nil }
func (w *stubWindow) State() (platform.WindowState, error) {
	visible := !w.hidden.Load()
	return platform.WindowState{Visible: visible, Focused: visible}, nil
}

type stubManager struct {
	window *stubWindow
	closed bool
}

func (m *stubManager) Windows() ([]platform.Window, error) { return []platform.Window{m.window}, nil }
func (m *stubManager) Main() (platform.Window, error)      { return m.window, nil }
func (m *stubManager) Close() error                        { m.closed = true; return nil }

func newTestApp(cfg *config.Config, manager *stubManager) (*App, *fakeEvents, *[]int) {
	if cfg == nil {
		cfg = config.DefaultConfig()
		cfg.Window.PollInterval = 0
	}
	a := NewApp(cfg, &testutils.RecordingLogger{})
	events := newFakeEvents()
	a.events = events

	var exits []int
	a.exit = func(code int) { exits = append(exits, code) }

	a.newWindows = func(context.Context, platform.Backend) (platform.WindowManager, platform.Backend, error) {
		if manager == nil {
			return nil, platform.BackendHost, platform.ErrNoHostContext
		}
		return manager, platform.BackendNative, nil
	}
	a.newController = func(_ context.Context, opts appcontrol.Options) (appcontrol.Controller, func(), error) {
		return appcontrol.NewDesktop(opts), func() {}, nil
	}
	return a, events, &exits
}

func requireDesktop(t *testing.T) {
	t.Helper()
	if appcontrol.Platform != "desktop" {
		t.Skip("window operations only run on desktop builds")
	}
}

func TestApp_CommandsBeforeStartupAreInvalidContext(t *testing.T) {
	a, _, _ := newTestApp(nil, &stubManager{window: &stubWindow{}})

	if _, err := a.MinimizeApp(); err == nil || err.Error() != "Invalid context" {
		t.Errorf("MinimizeApp() error = %v, want Invalid context", err)
	}
	if _, err := a.IsAppInForeground(); err == nil || err.Error() != "Invalid context" {
		t.Errorf("IsAppInForeground() error = %v, want Invalid context", err)
	}
}

func TestApp_ErrorFormatCode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Window.PollInterval = 0
	cfg.Errors.Format = config.ErrorFormatCode
	a, _, _ := newTestApp(cfg, nil)

	_, err := a.CloseApp()
	if err == nil || err.Error() != "invalidContext" {
		t.Errorf("CloseApp() error = %v, want invalidContext", err)
	}
}

func TestApp_StartupAnnouncesPlugin(t *testing.T) {
	a, events, _ := newTestApp(nil, &stubManager{window: &stubWindow{}})
	a.Startup(context.Background())

	names := events.names()
	if len(names) != 1 || names[0] != EventPrefix+appcontrol.EventPluginLoaded {
		t.Fatalf("Expected plugin-loaded event, got %v", names)
	}
	payload := events.emitted[0].payload
	if payload["platform"] != appcontrol.Platform || payload["message"] == "" {
		t.Errorf("Unexpected payload %v", payload)
	}
}

func TestApp_MinimizeAndForeground(t *testing.T) {
	requireDesktop(t)

	manager := &stubManager{window: &stubWindow{}}
	a, events, _ := newTestApp(nil, manager)
	a.Startup(context.Background())

	result, err := a.MinimizeApp()
	if err != nil {
		t.Fatalf("MinimizeApp() error = %v", err)
	}
	if !result.Success || result.Message != "Minimized 1/1 windows" {
		t.Errorf("Unexpected result %+v", result)
	}
	if manager.window.minimized != 1 {
		t.Errorf("Expected one minimize, got %d", manager.window.minimized)
	}

	names := events.names()
	if names[len(names)-1] != EventPrefix+appcontrol.EventAppMinimized {
		t.Errorf("Expected app-minimized event last, got %v", names)
	}

	state, err := a.IsAppInForeground()
	if err != nil || !state.InForeground {
		t.Errorf("IsAppInForeground() = %+v, %v", state, err)
	}
}

func TestApp_ExitAppUsesDefaults(t *testing.T) {
	requireDesktop(t)

	a, _, exits := newTestApp(nil, &stubManager{window: &stubWindow{}})
	a.Startup(context.Background())

	result, err := a.ExitApp(nil)
	if err != nil || !result.Success {
		t.Fatalf("ExitApp(nil) = %+v, %v", result, err)
	}
	if len(*exits) != 1 || (*exits)[0] != 0 {
		t.Errorf("Expected exit(0), got %v", *exits)
	}
}

func TestApp_MissingWindowManager(t *testing.T) {
	requireDesktop(t)

	a, _, _ := newTestApp(nil, nil)
	a.Startup(context.Background())

	if _, err := a.MinimizeApp(); err == nil || err.Error() != "Invalid context" {
		t.Errorf("MinimizeApp() error = %v, want Invalid context", err)
	}
}

func TestApp_ControllerInitFailure(t *testing.T) {
	a, events, _ := newTestApp(nil, &stubManager{window: &stubWindow{}})
	a.newController = func(context.Context, appcontrol.Options) (appcontrol.Controller, func(), error) {
		return nil, nil, stderrors.New(`no native plugin registered as "dev.appcontrol"`)
	}
	a.Startup(context.Background())

	_, err := a.IsAppInForeground()
	if err == nil || err.Error() != `Unknown error: no native plugin registered as "dev.appcontrol"` {
		t.Errorf("IsAppInForeground() error = %v", err)
	}
	if len(events.names()) != 0 {
		t.Errorf("Expected no events after failed init, got %v", events.names())
	}
}

func TestApp_ReturnToForegroundEmitsResumed(t *testing.T) {
	requireDesktop(t)

	cfg := config.DefaultConfig()
	cfg.Window.PollInterval = 5 * time.Millisecond
	window := &stubWindow{}
	window.hidden.Store(true)
	a, events, _ := newTestApp(cfg, &stubManager{window: window})

	a.Startup(context.Background())
	defer a.Shutdown(context.Background())

	time.Sleep(20 * time.Millisecond)
	window.hidden.Store(false)

	resumed := EventPrefix + appcontrol.EventAppResumed
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, name := range events.names() {
			if name == resumed {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("Expected %s, got %v", resumed, events.names())
}

func TestApp_ShutdownReleasesResources(t *testing.T) {
	requireDesktop(t)

	manager := &stubManager{window: &stubWindow{}}
	a, _, _ := newTestApp(nil, manager)

	released := false
	a.newController = func(_ context.Context, opts appcontrol.Options) (appcontrol.Controller, func(), error) {
		return appcontrol.NewDesktop(opts), func() { released = true }, nil
	}

	a.Startup(context.Background())
	a.Shutdown(context.Background())

	if !released {
		t.Error("Expected controller release on shutdown")
	}
	if !manager.closed {
		t.Error("Expected window manager to be closed on shutdown")
	}
	if _, err := a.MinimizeApp(); err == nil || err.Error() != "Invalid context" {
		t.Errorf("MinimizeApp() after shutdown error = %v, want Invalid context", err)
	}
}
