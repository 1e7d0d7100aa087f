package appcontrol

import (
	"github.com/bytedance/sonic"
)

// ExitOptions configures app exit behaviour. Desktop builds accept but ignore it.
type ExitOptions struct {
	// RemoveFromRecents removes the app from the recent apps list (default true)
	RemoveFromRecents bool `json:"removeFromRecents"`

	// KillProcess forcefully kills the process after exit is initiated
	KillProcess bool `json:"killProcess"`
}

// DefaultExitOptions returns the options used when the caller sends none
func DefaultExitOptions() ExitOptions {
	return ExitOptions{RemoveFromRecents: true, KillProcess: false}
}

// UnmarshalJSON applies defaults to fields absent from data
func (o *ExitOptions) UnmarshalJSON(data []byte) error {
	type plain ExitOptions
	decoded := plain(DefaultExitOptions())
	if err := sonic.ConfigStd.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = ExitOptions(decoded)
	return nil
}

// Resolve returns the options pointed to by opts, or the defaults for nil
func (o *ExitOptions) Resolve() ExitOptions {
	if o == nil {
		return DefaultExitOptions()
	}
	return *o
}

// MinimizeResult is the outcome of minimize_app
type MinimizeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CloseResult is the outcome of close_app
type CloseResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExitResult is the outcome of exit_app
type ExitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AppState is a snapshot of the application's foreground state. IsDestroyed
// and PackageName only exist on mobile and are omitted elsewhere.
type AppState struct {
	InForeground bool    `json:"inForeground"`
	IsFinishing  bool    `json:"isFinishing"`
	IsDestroyed  *bool   `json:"isDestroyed,omitempty"`
	PackageName  *string `json:"packageName,omitempty"`
}
