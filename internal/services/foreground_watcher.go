package services

import (
	"context"
	"sync"
	"time"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/infrastructure/logging"
	"appcontrol/internal/platform"
)

// ForegroundSource answers the foreground query the watcher polls
type ForegroundSource interface {
	IsAppInForeground(ctx context.Context) (appcontrol.AppState, error)
}

// ForegroundWatcher polls the foreground state and emits app-resumed each
// time the application comes back on screen.
type ForegroundWatcher struct {
	source   ForegroundSource
	emitter  appcontrol.Emitter
	logger   logging.Logger
	interval time.Duration

	mutex   sync.RWMutex
	known   bool
	current bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewForegroundWatcher creates a watcher polling source every interval
func NewForegroundWatcher(source ForegroundSource, emitter appcontrol.Emitter, interval time.Duration, logger logging.Logger) *ForegroundWatcher {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &ForegroundWatcher{
		source:   source,
		emitter:  emitter,
		logger:   logger,
		interval: interval,
	}
}

// Start begins polling in the background. Calling Start twice is a no-op.
func (fw *ForegroundWatcher) Start(ctx context.Context) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()

	if fw.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	fw.cancel = cancel
	fw.done = make(chan struct{})

	go fw.loop(ctx, fw.done)
}

// Stop ends polling and waits for the loop to exit
func (fw *ForegroundWatcher) Stop() {
	fw.mutex.Lock()
	cancel, done := fw.cancel, fw.done
	fw.cancel, fw.done = nil, nil
	fw.mutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// InForeground returns the last observed state and whether one was observed yet
func (fw *ForegroundWatcher) InForeground() (inForeground bool, known bool) {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()
	return fw.current, fw.known
}

func (fw *ForegroundWatcher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(fw.interval)
	defer ticker.Stop()

	fw.Poll(ctx)
	for {
		select {
		case <-ticker.C:
			fw.Poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Poll samples the foreground state once and emits app-resumed on a
// background to foreground transition. The first sample only sets the baseline.
func (fw *ForegroundWatcher) Poll(ctx context.Context) {
	state, err := fw.source.IsAppInForeground(ctx)
	if err != nil {
		fw.logger.Debug("Foreground poll failed", "error", err.Error())
		return
	}

	fw.mutex.Lock()
	resumed := fw.known && !fw.current && state.InForeground
	changed := !fw.known || fw.current != state.InForeground
	fw.current = state.InForeground
	fw.known = true
	fw.mutex.Unlock()

	if changed {
		fw.logger.Debug("Foreground state changed", "in_foreground", state.InForeground)
	}
	if resumed && fw.emitter != nil {
		fw.emitter.Emit(appcontrol.EventAppResumed, map[string]any{
			"timestamp": time.Now().UnixMilli(),
		})
	}
}

// windowSource reconciles window states without going through a controller,
// so polling does not log an operation per tick.
type windowSource struct {
	windows platform.WindowManager
}

// WindowSource adapts a window manager to ForegroundSource
func WindowSource(windows platform.WindowManager) ForegroundSource {
	return windowSource{windows: windows}
}

func (s windowSource) IsAppInForeground(context.Context) (appcontrol.AppState, error) {
	list, err := s.windows.Windows()
	if err != nil {
		return appcontrol.AppState{}, err
	}

	states := make([]platform.WindowState, 0, len(list))
	for _, w := range list {
		if st, err := w.State(); err == nil {
			states = append(states, st)
		}
	}
	return appcontrol.AppState{InForeground: appcontrol.InForeground(states)}, nil
}
