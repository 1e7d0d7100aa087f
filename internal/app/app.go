package app

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/config"
	"appcontrol/internal/infrastructure/errors"
	"appcontrol/internal/infrastructure/logging"
	"appcontrol/internal/platform"
	"appcontrol/internal/services"
)

const (
	// EventPrefix namespaces every lifecycle event sent to the frontend
	EventPrefix = "app-control:"

	// shutdownTimeout bounds releasing the controller and window manager
	shutdownTimeout = 2 * time.Second

	// exitGrace gives the app-exiting event time to reach the frontend
	exitGrace = 100 * time.Millisecond
)

// HostEvents is the subset of the Wails runtime used for frontend events
type HostEvents interface {
	EventsEmit(ctx context.Context, name string, data ...interface{})
}

type wailsEvents struct{}

func (wailsEvents) EventsEmit(ctx context.Context, name string, data ...interface{}) {
	runtime.EventsEmit(ctx, name, data...)
}

// App is bound to the host shell and exposes the app-control commands
type App struct {
	cfg    *config.Config
	logger logging.Logger
	events HostEvents

	// swapped in tests
	newWindows    func(ctx context.Context, backend platform.Backend) (platform.WindowManager, platform.Backend, error)
	newController func(ctx context.Context, opts appcontrol.Options) (appcontrol.Controller, func(), error)
	exit          func(code int)

	mu         sync.RWMutex
	ctx        context.Context
	windows    platform.WindowManager
	controller appcontrol.Controller
	release    func()
	initErr    error
	watcher    *services.ForegroundWatcher
}

// NewApp creates a new App with the given configuration and logger
func NewApp(cfg *config.Config, logger logging.Logger) *App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &App{
		cfg:           cfg,
		logger:        logger,
		events:        wailsEvents{},
		newWindows:    platform.NewWindowManager,
		newController: appcontrol.New,
	}
}

// Startup is called at application startup. It resolves the window manager
// and the controller for this build and announces the plugin to the frontend.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ctx = ctx

	var windows platform.WindowManager
	if appcontrol.Platform == "desktop" {
		m, backend, err := a.newWindows(ctx, a.cfg.Window.Backend)
		if err != nil {
			a.logger.Warn("Window manager unavailable, window operations will fail",
				"backend", string(backend),
				"error", err.Error(),
			)
		} else {
			a.logger.Info("Window manager ready", "backend", string(backend))
			windows = m
		}
	}
	a.windows = windows

	controller, release, err := a.newController(ctx, appcontrol.Options{
		Windows:          windows,
		Scope:            a.cfg.Window.Scope,
		Exit:             a.exit,
		ExitGrace:        exitGrace,
		PluginIdentifier: a.cfg.Plugin.Identifier,
		Emitter:          appcontrol.EmitterFunc(a.emit),
		Logger:           a.logger,
	})
	if err != nil {
		a.initErr = errors.Wrap("init", err)
		a.logger.Error("App control initialization failed", "error", err.Error())
		return
	}
	a.controller = controller
	a.release = release

	// Native plugins report app-resumed themselves; desktop polls for it
	if windows != nil && a.cfg.Window.PollInterval > 0 {
		a.watcher = services.NewForegroundWatcher(services.WindowSource(windows), appcontrol.EmitterFunc(a.emit), a.cfg.Window.PollInterval, a.logger)
		a.watcher.Start(ctx)
	}

	a.emit(appcontrol.EventPluginLoaded, map[string]any{
		"message":  "App control plugin loaded",
		"platform": appcontrol.Platform,
	})
	a.logger.Info("Application started", "platform", appcontrol.Platform)
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown releases the controller and the window-system connection
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if a.watcher != nil {
			a.watcher.Stop()
			a.watcher = nil
		}

		if a.release != nil {
			a.release()
			a.release = nil
		}
		if c, ok := a.windows.(platform.Closer); ok {
			if err := c.Close(); err != nil {
				a.logger.Warn("Failed to close window manager", "error", err.Error())
			}
		}
	}()

	select {
	case <-done:
		a.logger.Info("Application shutdown completed")
	case <-time.After(shutdownTimeout):
		a.logger.Warn("Application shutdown timed out", "timeout_ms", shutdownTimeout.Milliseconds())
	}

	a.controller = nil
	a.windows = nil
}

// emit forwards a lifecycle event to the frontend under EventPrefix
func (a *App) emit(name string, payload map[string]any) {
	if a.ctx == nil {
		return
	}
	a.events.EventsEmit(a.ctx, EventPrefix+name, payload)
}

// active returns the controller for op, or the error that explains its absence
func (a *App) active(op string) (context.Context, appcontrol.Controller, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.initErr != nil {
		return nil, nil, a.initErr
	}
	if a.ctx == nil || a.controller == nil {
		return nil, nil, errors.NewInvalidContext(op)
	}
	return a.ctx, a.controller, nil
}

// boundaryError converts err to what the frontend receives: the display
// message by default, or the short code when errors.format is "code".
func (a *App) boundaryError(err error) error {
	if err == nil {
		return nil
	}
	if a.cfg.Errors.Format == config.ErrorFormatCode {
		return stderrors.New(errors.CodeOf(err))
	}
	return stderrors.New(err.Error())
}

// MinimizeApp minimizes the application's windows
func (a *App) MinimizeApp() (appcontrol.MinimizeResult, error) {
	ctx, c, err := a.active(appcontrol.OpMinimizeApp)
	if err != nil {
		return appcontrol.MinimizeResult{}, a.boundaryError(err)
	}
	result, err := c.MinimizeApp(ctx)
	return result, a.boundaryError(err)
}

// CloseApp closes the application's windows
func (a *App) CloseApp() (appcontrol.CloseResult, error) {
	ctx, c, err := a.active(appcontrol.OpCloseApp)
	if err != nil {
		return appcontrol.CloseResult{}, a.boundaryError(err)
	}
	result, err := c.CloseApp(ctx)
	return result, a.boundaryError(err)
}

// ExitApp terminates the application. A nil options argument means defaults.
func (a *App) ExitApp(options *appcontrol.ExitOptions) (appcontrol.ExitResult, error) {
	ctx, c, err := a.active(appcontrol.OpExitApp)
	if err != nil {
		return appcontrol.ExitResult{}, a.boundaryError(err)
	}
	result, err := c.ExitApp(ctx, options)
	return result, a.boundaryError(err)
}

// IsAppInForeground reports whether the application is on screen
func (a *App) IsAppInForeground() (appcontrol.AppState, error) {
	ctx, c, err := a.active(appcontrol.OpIsAppInForeground)
	if err != nil {
		return appcontrol.AppState{}, a.boundaryError(err)
	}
	state, err := c.IsAppInForeground(ctx)
	return state, a.boundaryError(err)
}

// GetLogger returns the application's structured logger
func (a *App) GetLogger() logging.Logger {
	return a.logger
}
