//go:build !linux && !windows && !darwin

package appcontrol

import "context"

// Platform names the implementation compiled into this build
const Platform = "unsupported"

// New returns a controller whose every operation fails with UnsupportedPlatform
func New(_ context.Context, _ Options) (Controller, func(), error) {
	return NewUnsupported(), func() {}, nil
}
