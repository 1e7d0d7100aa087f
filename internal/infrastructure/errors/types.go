package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind classifies app-control failures. The set is closed.
type Kind int

const (
	KindUnknown Kind = iota
	KindIo
	KindPluginApi
	KindPluginInvoke
	KindMinimizeFailed
	KindCloseFailed
	KindExitFailed
	KindInvalidContext
	KindUnsupportedPlatform
)

// Kinds lists every error kind in declaration order
func Kinds() []Kind {
	return []Kind{
		KindUnknown,
		KindIo,
		KindPluginApi,
		KindPluginInvoke,
		KindMinimizeFailed,
		KindCloseFailed,
		KindExitFailed,
		KindInvalidContext,
		KindUnsupportedPlatform,
	}
}

// Code returns the stable short code transmitted across process boundaries
func (k Kind) Code() string {
	switch k {
	case KindIo:
		return "ioError"
	case KindPluginApi:
		return "pluginError"
	case KindPluginInvoke:
		return "pluginInvokeError"
	case KindMinimizeFailed:
		return "minimizeFailed"
	case KindCloseFailed:
		return "closeFailed"
	case KindExitFailed:
		return "exitFailed"
	case KindInvalidContext:
		return "invalidContext"
	case KindUnsupportedPlatform:
		return "unsupportedPlatform"
	default:
		return "unknownError"
	}
}

// String returns a string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindIo:
		return "Io"
	case KindPluginApi:
		return "PluginApi"
	case KindPluginInvoke:
		return "PluginInvoke"
	case KindMinimizeFailed:
		return "MinimizeFailed"
	case KindCloseFailed:
		return "CloseFailed"
	case KindExitFailed:
		return "ExitFailed"
	case KindInvalidContext:
		return "InvalidContext"
	case KindUnsupportedPlatform:
		return "UnsupportedPlatform"
	default:
		return "Unknown"
	}
}

// KindFromCode is the inverse of Kind.Code. Unrecognised codes map to KindUnknown.
func KindFromCode(code string) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Code() == code {
			return k, true
		}
	}
	return KindUnknown, false
}

// ControlError is the single error type returned by app-control operations
type ControlError struct {
	Op        string            // operation name
	Kind      Kind              // error classification
	Detail    string            // free text for UnsupportedPlatform and Unknown
	Err       error             // underlying error for transparent kinds
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

// Error returns the human-readable display message. This is what the host
// shell receives by default, so it carries no op or context decoration.
func (e *ControlError) Error() string {
	if e == nil {
		return "app control error"
	}

	switch e.Kind {
	case KindIo, KindPluginApi, KindPluginInvoke:
		if e.Err != nil {
			return e.Err.Error()
		}
		if e.Detail != "" {
			return e.Detail
		}
		return e.Kind.String() + " error"
	case KindMinimizeFailed:
		return "Failed to minimize app"
	case KindCloseFailed:
		return "Failed to close app"
	case KindExitFailed:
		return "Failed to exit app"
	case KindInvalidContext:
		return "Invalid context"
	case KindUnsupportedPlatform:
		return "Unsupported platform: " + e.Detail
	default:
		detail := e.Detail
		if detail == "" && e.Err != nil {
			detail = e.Err.Error()
		}
		return "Unknown error: " + detail
	}
}

// Describe returns the display message decorated with op and sorted context,
// for logs.
func (e *ControlError) Describe() string {
	if e == nil {
		return "app control error"
	}

	parts := []string{fmt.Sprintf("code=%s", e.Kind.Code())}
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
	}

	return fmt.Sprintf("%s [%s]", e.Error(), strings.Join(parts, " "))
}

func (e *ControlError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements error matching for errors.Is
func (e *ControlError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*ControlError); ok {
		return e.Kind == t.Kind
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// Code returns the short code of the error kind
func (e *ControlError) Code() string {
	if e == nil {
		return KindUnknown.Code()
	}
	return e.Kind.Code()
}

// GetContext returns the error context, never nil
func (e *ControlError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// WithContext adds context information to the error by mutating the receiver.
// Not safe once the error has been handed to another goroutine.
func (e *ControlError) WithContext(key, value string) *ControlError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func newError(op string, kind Kind, detail string, err error) *ControlError {
	return &ControlError{
		Op:        op,
		Kind:      kind,
		Detail:    detail,
		Err:       err,
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewIoError wraps an underlying I/O failure
func NewIoError(op string, err error) *ControlError {
	return newError(op, KindIo, "", err)
}

// NewPluginApiError wraps a host-shell plugin-system failure
func NewPluginApiError(op string, err error) *ControlError {
	return newError(op, KindPluginApi, "", err)
}

// NewPluginInvokeError wraps a native-bridge call failure
func NewPluginInvokeError(op string, err error) *ControlError {
	return newError(op, KindPluginInvoke, "", err)
}

// NewMinimizeFailed reports an operation-level minimize failure
func NewMinimizeFailed(op string) *ControlError {
	return newError(op, KindMinimizeFailed, "", nil)
}

// NewCloseFailed reports an operation-level close failure
func NewCloseFailed(op string) *ControlError {
	return newError(op, KindCloseFailed, "", nil)
}

// NewExitFailed reports an operation-level exit failure
func NewExitFailed(op string) *ControlError {
	return newError(op, KindExitFailed, "", nil)
}

// NewInvalidContext reports an operation invoked without its host context
func NewInvalidContext(op string) *ControlError {
	return newError(op, KindInvalidContext, "", nil)
}

// NewUnsupportedPlatform reports an operation with no implementation here
func NewUnsupportedPlatform(op, msg string) *ControlError {
	return newError(op, KindUnsupportedPlatform, msg, nil)
}

// NewUnknown reports an unclassified failure with free-text detail
func NewUnknown(op, msg string) *ControlError {
	return newError(op, KindUnknown, msg, nil)
}

// NewUnknownFrom reports an unclassified failure caused by err
func NewUnknownFrom(op string, err error) *ControlError {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return newError(op, KindUnknown, detail, err)
}

// Wrap converts an arbitrary error into a ControlError, keeping an existing
// classification when err already is one.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ctrlErr *ControlError
	if errors.As(err, &ctrlErr) {
		return err
	}
	return NewUnknownFrom(op, err)
}

// KindOf returns the kind of err, or KindUnknown when err is not a ControlError
func KindOf(err error) Kind {
	var ctrlErr *ControlError
	if errors.As(err, &ctrlErr) {
		return ctrlErr.Kind
	}
	return KindUnknown
}

// CodeOf returns the short code for err
func CodeOf(err error) string {
	return KindOf(err).Code()
}

func isKind(err error, kind Kind) bool {
	var ctrlErr *ControlError
	if errors.As(err, &ctrlErr) {
		return ctrlErr.Kind == kind
	}
	return false
}

// IsUnsupportedPlatform checks if the error is an unsupported-platform error
func IsUnsupportedPlatform(err error) bool {
	return isKind(err, KindUnsupportedPlatform)
}

// IsInvalidContext checks if the error is an invalid-context error
func IsInvalidContext(err error) bool {
	return isKind(err, KindInvalidContext)
}

// IsPluginInvoke checks if the error came from the native bridge
func IsPluginInvoke(err error) bool {
	return isKind(err, KindPluginInvoke)
}

// IsPluginApi checks if the error came from the host plugin system
func IsPluginApi(err error) bool {
	return isKind(err, KindPluginApi)
}

// IsIo checks if the error is an I/O error
func IsIo(err error) bool {
	return isKind(err, KindIo)
}
