package logging

import (
	"strings"

	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

var _ wailslogger.Logger = (*WailsLoggerAdapter)(nil)

// HostSource tags log entries that originate in the host shell
const HostSource = "host"

// WailsLoggerAdapter routes the host shell's log output into our structured logger
type WailsLoggerAdapter struct {
	logger Logger
	source string
}

// NewWailsLoggerAdapter creates a new Wails logger adapter using our structured logger
func NewWailsLoggerAdapter(logger Logger) *WailsLoggerAdapter {
	return NewWailsLoggerAdapterFor(logger, HostSource)
}

// NewWailsLoggerAdapterFor tags every entry with source instead of HostSource
func NewWailsLoggerAdapterFor(logger Logger, source string) *WailsLoggerAdapter {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	if source == "" {
		source = HostSource
	}
	return &WailsLoggerAdapter{
		logger: logger,
		source: source,
	}
}

// clean strips the trailing newlines Wails appends. Blank lines are dropped.
func clean(message string) (string, bool) {
	message = strings.TrimSpace(message)
	return message, message != ""
}

// Print logs a message at INFO level (Wails general output)
func (w *WailsLoggerAdapter) Print(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Info(msg, "source", w.source)
	}
}

// Trace logs a message at DEBUG level (Wails trace output)
func (w *WailsLoggerAdapter) Trace(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Debug(msg, "source", w.source, "level", "trace")
	}
}

// Debug logs a message at DEBUG level
func (w *WailsLoggerAdapter) Debug(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Debug(msg, "source", w.source)
	}
}

// Info logs a message at INFO level
func (w *WailsLoggerAdapter) Info(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Info(msg, "source", w.source)
	}
}

// Warning logs a message at WARN level
func (w *WailsLoggerAdapter) Warning(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Warn(msg, "source", w.source)
	}
}

// Error logs a message at ERROR level
func (w *WailsLoggerAdapter) Error(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Error(msg, "source", w.source)
	}
}

// Fatal logs at ERROR level. The host shell must not terminate the process
// from its logger; exit is owned by the exit_app operation.
func (w *WailsLoggerAdapter) Fatal(message string) {
	if msg, ok := clean(message); ok {
		w.logger.Error(msg, "source", w.source, "level", "fatal")
	}
}
