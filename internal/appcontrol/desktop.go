package appcontrol

import (
	"context"
	"fmt"
	"os"
	"time"

	"appcontrol/internal/infrastructure/errors"
	"appcontrol/internal/infrastructure/logging"
	"appcontrol/internal/platform"
)

// Desktop implements Controller directly on the process's own windows. The
// window manager is borrowed from the host and never closed here.
type Desktop struct {
	windows platform.WindowManager
	scope   WindowScope
	exit    func(code int)
	grace   time.Duration
	emitter Emitter
	logger  logging.Logger
}

var _ Controller = (*Desktop)(nil)

// NewDesktop creates the desktop controller. A nil window manager is
// accepted; every window operation then fails with InvalidContext.
func NewDesktop(opts Options) *Desktop {
	scope := opts.Scope
	if !scope.Valid() {
		scope = ScopeAll
	}
	exit := opts.Exit
	if exit == nil {
		exit = os.Exit
	}
	return &Desktop{
		windows: opts.Windows,
		scope:   scope,
		exit:    exit,
		grace:   opts.ExitGrace,
		emitter: opts.emitter(),
		logger:  opts.logger(),
	}
}

// list enumerates all windows; a window-system failure is a PluginApi error
func (d *Desktop) list(op string) ([]platform.Window, error) {
	if d.windows == nil {
		return nil, errors.NewInvalidContext(op)
	}

	list, err := d.windows.Windows()
	if err != nil {
		return nil, errors.NewPluginApiError(op, err)
	}
	return list, nil
}

// targets returns the windows an operation applies to under the configured scope
func (d *Desktop) targets(op string) ([]platform.Window, error) {
	if d.windows == nil {
		return nil, errors.NewInvalidContext(op)
	}

	if d.scope == ScopeMain {
		w, err := d.windows.Main()
		if err == platform.ErrNoWindows {
			return nil, nil
		}
		if err != nil {
			return nil, errors.NewPluginApiError(op, err)
		}
		return []platform.Window{w}, nil
	}

	return d.list(op)
}

// forEach applies fn to every target window, absorbing per-window failures
func (d *Desktop) forEach(op string, fn func(platform.Window) error) (affected, total int, err error) {
	list, err := d.targets(op)
	if err != nil {
		return 0, 0, err
	}

	for _, w := range list {
		if werr := fn(w); werr != nil {
			d.logger.Warn("Window operation failed",
				"operation", op,
				"window", w.ID(),
				"error", werr.Error(),
			)
			continue
		}
		affected++
	}
	return affected, len(list), nil
}

// MinimizeApp minimizes every target window
func (d *Desktop) MinimizeApp(ctx context.Context) (MinimizeResult, error) {
	started := time.Now()

	affected, total, err := d.forEach(OpMinimizeApp, platform.Window.Minimize)
	if err != nil {
		return MinimizeResult{}, observe(d.logger, OpMinimizeApp, started, err, nil)
	}

	result := MinimizeResult{
		Success: affected > 0,
		Message: fmt.Sprintf("Minimized %d/%d windows", affected, total),
	}
	if result.Success {
		d.emitter.Emit(EventAppMinimized, map[string]any{
			"success": result.Success,
			"message": result.Message,
		})
	}

	observe(d.logger, OpMinimizeApp, started, nil, map[string]interface{}{
		"affected": affected,
		"total":    total,
	})
	return result, nil
}

// CloseApp closes every target window
func (d *Desktop) CloseApp(ctx context.Context) (CloseResult, error) {
	started := time.Now()

	if d.windows != nil {
		d.emitter.Emit(EventAppClosing, map[string]any{
			"message":   "App is closing",
			"timestamp": time.Now().UnixMilli(),
		})
	}

	affected, total, err := d.forEach(OpCloseApp, platform.Window.Close)
	if err != nil {
		return CloseResult{}, observe(d.logger, OpCloseApp, started, err, nil)
	}

	result := CloseResult{
		Success: affected > 0,
		Message: fmt.Sprintf("Closed %d/%d windows", affected, total),
	}

	observe(d.logger, OpCloseApp, started, nil, map[string]interface{}{
		"affected": affected,
		"total":    total,
	})
	return result, nil
}

// ExitApp terminates the process with code 0. opts has no effect on desktop.
// Delivery of app-exiting is best-effort: host events are dispatched
// asynchronously, so the frontend only sees it if it arrives within the
// configured exit grace period.
func (d *Desktop) ExitApp(ctx context.Context, opts *ExitOptions) (ExitResult, error) {
	started := time.Now()
	resolved := opts.Resolve()

	d.emitter.Emit(EventAppExiting, map[string]any{
		"removeFromRecents": resolved.RemoveFromRecents,
		"killProcess":       resolved.KillProcess,
		"timestamp":         time.Now().UnixMilli(),
	})
	observe(d.logger, OpExitApp, started, nil, map[string]interface{}{
		"remove_from_recents": resolved.RemoveFromRecents,
		"kill_process":        resolved.KillProcess,
	})

	if d.grace > 0 {
		time.Sleep(d.grace)
	}
	d.exit(0)

	return ExitResult{Success: true, Message: "Application exiting"}, nil
}

// IsAppInForeground reports whether any of the process's windows is on screen.
// Windows whose state cannot be read count as not visible.
func (d *Desktop) IsAppInForeground(ctx context.Context) (AppState, error) {
	started := time.Now()

	list, err := d.list(OpIsAppInForeground)
	if err != nil {
		return AppState{}, observe(d.logger, OpIsAppInForeground, started, err, nil)
	}

	states := make([]platform.WindowState, 0, len(list))
	for _, w := range list {
		s, err := w.State()
		if err != nil {
			d.logger.Warn("Window state unavailable", "window", w.ID(), "error", err.Error())
			continue
		}
		states = append(states, s)
	}

	state := AppState{InForeground: InForeground(states), IsFinishing: false}

	observe(d.logger, OpIsAppInForeground, started, nil, map[string]interface{}{
		"in_foreground": state.InForeground,
		"windows":       len(list),
	})
	return state, nil
}
