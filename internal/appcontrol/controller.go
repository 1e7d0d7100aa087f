// Package appcontrol dispatches the application lifecycle operations
// (minimize, close, exit, foreground query) to the implementation selected
// for the build target.
package appcontrol

import (
	"context"
	"time"

	"appcontrol/internal/infrastructure/errors"
	"appcontrol/internal/infrastructure/logging"
	"appcontrol/internal/platform"
)

// Operation names, as registered with the host shell
const (
	OpMinimizeApp       = "minimize_app"
	OpCloseApp          = "close_app"
	OpExitApp           = "exit_app"
	OpIsAppInForeground = "is_app_in_foreground"
)

// Native plugin call names
const (
	MethodMinimizeApp       = "minimizeApp"
	MethodCloseApp          = "closeApp"
	MethodExitApp           = "exitApp"
	MethodIsAppInForeground = "isAppInForeground"
)

// Lifecycle events relayed to the frontend
const (
	EventPluginLoaded = "plugin-loaded"
	EventAppResumed   = "app-resumed"
	EventAppMinimized = "app-minimized"
	EventAppClosing   = "app-closing"
	EventAppExiting   = "app-exiting"
)

// DefaultPluginIdentifier is the identifier native code registers its plugin under
const DefaultPluginIdentifier = "dev.appcontrol"

// Controller is the dispatch facade. Exactly one implementation is active per build.
type Controller interface {
	MinimizeApp(ctx context.Context) (MinimizeResult, error)
	CloseApp(ctx context.Context) (CloseResult, error)
	ExitApp(ctx context.Context, opts *ExitOptions) (ExitResult, error)
	IsAppInForeground(ctx context.Context) (AppState, error)
}

// Emitter delivers lifecycle events to the frontend
type Emitter interface {
	Emit(name string, payload map[string]any)
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(name string, payload map[string]any)

func (f EmitterFunc) Emit(name string, payload map[string]any) {
	f(name, payload)
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, map[string]any) {}

// WindowScope selects which windows minimize/close act on
type WindowScope string

const (
	ScopeAll  WindowScope = "all"
	ScopeMain WindowScope = "main"
)

// Valid reports whether s is a known scope
func (s WindowScope) Valid() bool {
	return s == ScopeAll || s == ScopeMain
}

// Options carries everything New needs for any build target. Fields that do
// not apply to the target are ignored.
type Options struct {
	// Desktop
	Windows platform.WindowManager
	Scope   WindowScope
	Exit    func(code int)
	// ExitGrace is how long ExitApp waits after emitting app-exiting
	ExitGrace time.Duration

	// Mobile
	PluginIdentifier string

	Emitter Emitter
	Logger  logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.NewDefaultLogger()
	}
	return o.Logger
}

func (o Options) emitter() Emitter {
	if o.Emitter == nil {
		return nopEmitter{}
	}
	return o.Emitter
}

// observe logs one finished operation and normalises its error
func observe(logger logging.Logger, op string, started time.Time, err error, fields map[string]interface{}) error {
	if err != nil {
		err = errors.Wrap(op, err)
		logging.LogOperationError(logger, err, op, time.Since(started), fields)
		return err
	}
	logging.LogOperation(logger, op, time.Since(started), fields)
	return nil
}
