// Package bridge forwards named calls to a native platform plugin that lives
// outside this module, typically the Kotlin or Swift half of a gomobile app.
package bridge

import (
	"strings"

	"github.com/bytedance/sonic"
)

// NativePlugin is implemented by native code. Its signature sticks to types
// gomobile can bind: the payload and the response are JSON documents.
type NativePlugin interface {
	Run(method string, payload string) (string, error)
}

// NativeError is a rejection reported by the native plugin. Native code may
// encode it as the error text {"message": "...", "code": "..."}.
type NativeError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (e *NativeError) Error() string {
	return e.Message
}

// ParseNativeError recovers the structured form of a native rejection. Plain
// text errors become a NativeError without a code.
func ParseNativeError(err error) *NativeError {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*NativeError); ok {
		return ne
	}

	text := strings.TrimSpace(err.Error())
	if strings.HasPrefix(text, "{") {
		var ne NativeError
		if sonic.ConfigStd.UnmarshalFromString(text, &ne) == nil && ne.Message != "" {
			return &ne
		}
	}
	return &NativeError{Message: text}
}

// PluginFunc adapts a function to NativePlugin
type PluginFunc func(method string, payload string) (string, error)

func (f PluginFunc) Run(method string, payload string) (string, error) {
	return f(method, payload)
}
