package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/platform"
	"appcontrol/internal/testutils"
)

// scriptedSource returns the queued states in order, repeating the last one
type scriptedSource struct {
	mu     sync.Mutex
	states []bool
	err    error
	calls  int
}

func (s *scriptedSource) IsAppInForeground(context.Context) (appcontrol.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return appcontrol.AppState{}, s.err
	}
	i := s.calls - 1
	if i >= len(s.states) {
		i = len(s.states) - 1
	}
	return appcontrol.AppState{InForeground: s.states[i]}, nil
}

type countingEmitter struct {
	mu    sync.Mutex
	names []string
}

func (e *countingEmitter) Emit(name string, _ map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.names = append(e.names, name)
}

func (e *countingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.names)
}

func TestForegroundWatcher_Poll(t *testing.T) {
	tests := []struct {
		name        string
		states      []bool
		wantResumed int
		wantFinal   bool
	}{
		{"baseline only", []bool{true}, 0, true},
		{"stays in background", []bool{false, false, false}, 0, false},
		{"comes back", []bool{false, true}, 1, true},
		{"leaves", []bool{true, false}, 0, false},
		{"flaps", []bool{true, false, true, false, true}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &scriptedSource{states: tt.states}
			emitter := &countingEmitter{}
			fw := NewForegroundWatcher(source, emitter, time.Second, &testutils.RecordingLogger{})

			for range tt.states {
				fw.Poll(context.Background())
			}

			if got := emitter.count(); got != tt.wantResumed {
				t.Errorf("Expected %d app-resumed events, got %d", tt.wantResumed, got)
			}
			for _, name := range emitter.names {
				if name != appcontrol.EventAppResumed {
					t.Errorf("Unexpected event %q", name)
				}
			}
			current, known := fw.InForeground()
			if !known || current != tt.wantFinal {
				t.Errorf("InForeground() = %v, %v; want %v, true", current, known, tt.wantFinal)
			}
		})
	}
}

func TestForegroundWatcher_PollErrorKeepsState(t *testing.T) {
	source := &scriptedSource{err: errors.New("display gone")}
	fw := NewForegroundWatcher(source, &countingEmitter{}, time.Second, &testutils.RecordingLogger{})

	fw.Poll(context.Background())

	if _, known := fw.InForeground(); known {
		t.Error("Expected no state after a failed poll")
	}
}

func TestForegroundWatcher_StartStop(t *testing.T) {
	source := &scriptedSource{states: []bool{false, true}}
	emitter := &countingEmitter{}
	fw := NewForegroundWatcher(source, emitter, 5*time.Millisecond, &testutils.RecordingLogger{})

	fw.Start(context.Background())
	fw.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for emitter.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	fw.Stop()
	fw.Stop()

	if emitter.count() != 1 {
		t.Errorf("Expected one app-resumed event, got %d", emitter.count())
	}
}

func TestNewForegroundWatcher_DefaultInterval(t *testing.T) {
	fw := NewForegroundWatcher(&scriptedSource{states: []bool{true}}, nil, 0, nil)
	if fw.interval != time.Second {
		t.Errorf("Expected default interval of 1s, got %v", fw.interval)
	}
}

type stateWindow struct {
	state platform.WindowState
	err   error
}

func (w stateWindow) ID() string                           { return "w" }
func (w stateWindow) Minimize() error                      { return nil }
func (w stateWindow) Close() error                         { return nil }
func (w stateWindow) State() (platform.WindowState, error) { return w.state, w.err }

type listManager struct {
	windows []platform.Window
	err     error
}

func (m listManager) Windows() ([]platform.Window, error) { return m.windows, m.err }
func (m listManager) Main() (platform.Window, error)      { return nil, platform.ErrNoWindows }

func TestWindowSource(t *testing.T) {
	tests := []struct {
		name    string
		manager listManager
		want    bool
		wantErr bool
	}{
		{"visible window", listManager{windows: []platform.Window{stateWindow{state: platform.WindowState{Visible: true}}}}, true, false},
		{"hidden window", listManager{windows: []platform.Window{stateWindow{}}}, false, false},
		{"unreadable window", listManager{windows: []platform.Window{stateWindow{state: platform.WindowState{Visible: true}, err: errors.New("gone")}}}, false, false},
		{"enumeration failure", listManager{err: errors.New("display gone")}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := WindowSource(tt.manager).IsAppInForeground(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsAppInForeground() error = %v, wantErr %v", err, tt.wantErr)
			}
			if state.InForeground != tt.want {
				t.Errorf("InForeground = %v, want %v", state.InForeground, tt.want)
			}
		})
	}
}
