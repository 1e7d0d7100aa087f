package appcontrol

import (
	"context"
	"fmt"
	"runtime"

	"appcontrol/internal/infrastructure/errors"
)

// Unsupported is the controller for targets with neither a window system nor
// a native plugin. Every operation fails with UnsupportedPlatform.
type Unsupported struct {
	goos string
}

var _ Controller = (*Unsupported)(nil)

// NewUnsupported creates the controller for the running GOOS
func NewUnsupported() *Unsupported {
	return &Unsupported{goos: runtime.GOOS}
}

func (u *Unsupported) fail(op string) error {
	return errors.NewUnsupportedPlatform(op, fmt.Sprintf("%s is not available on %s", op, u.goos))
}

func (u *Unsupported) MinimizeApp(context.Context) (MinimizeResult, error) {
	return MinimizeResult{}, u.fail(OpMinimizeApp)
}

func (u *Unsupported) CloseApp(context.Context) (CloseResult, error) {
	return CloseResult{}, u.fail(OpCloseApp)
}

func (u *Unsupported) ExitApp(context.Context, *ExitOptions) (ExitResult, error) {
	return ExitResult{}, u.fail(OpExitApp)
}

func (u *Unsupported) IsAppInForeground(context.Context) (AppState, error) {
	return AppState{}, u.fail(OpIsAppInForeground)
}
