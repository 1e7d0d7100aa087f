//go:build (linux || windows || darwin) && !android && !ios

package appcontrol

import "context"

// Platform names the implementation compiled into this build
const Platform = "desktop"

// New returns the desktop controller. The returned release function is a no-op;
// the window manager belongs to the caller.
func New(_ context.Context, opts Options) (Controller, func(), error) {
	return NewDesktop(opts), func() {}, nil
}
