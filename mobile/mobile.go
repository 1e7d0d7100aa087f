// Package mobile is the gomobile-bound entry point native code uses to plug
// its half of app-control into the Go side.
//
// Native code implements NativePlugin, registers it once at startup, binds an
// AppControl to run the operations and pushes lifecycle events through
// EmitEvent:
//
//	Mobile.registerPlugin("dev.appcontrol", plugin)
//	AppControl control = Mobile.new_("dev.appcontrol", sink)
//	Mobile.emitEvent("app-resumed", "{\"timestamp\":1700000000000}")
package mobile

import (
	"appcontrol/internal/bridge"
)

// DefaultIdentifier is the identifier the Go side looks the plugin up by
// unless configured otherwise.
const DefaultIdentifier = "dev.appcontrol"

// NativePlugin handles one call from Go. method is one of minimizeApp,
// closeApp, exitApp or isAppInForeground; payload and the returned string
// are JSON objects. A rejection may be returned as an error whose text is
// {"message": "...", "code": "..."}.
type NativePlugin interface {
	Run(method string, payload string) (string, error)
}

// RegisterPlugin binds plugin to identifier, replacing any previous binding
func RegisterPlugin(identifier string, plugin NativePlugin) error {
	if plugin == nil {
		return bridge.ErrNilPlugin
	}
	return bridge.Default().Register(identifier, plugin)
}

// UnregisterPlugin removes the binding for identifier
func UnregisterPlugin(identifier string) {
	bridge.Default().Unregister(identifier)
}

// IsRegistered reports whether a plugin is bound to identifier
func IsRegistered(identifier string) bool {
	_, err := bridge.Default().Lookup(identifier)
	return err == nil
}

// EmitEvent relays a lifecycle event to the frontend. payloadJSON may be empty.
func EmitEvent(name string, payloadJSON string) error {
	return bridge.Default().Publish(name, payloadJSON)
}
