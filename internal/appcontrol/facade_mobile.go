//go:build android || ios

package appcontrol

import (
	"context"

	"appcontrol/internal/bridge"
)

// Platform names the implementation compiled into this build
const Platform = "mobile"

// New returns the bridge controller for the plugin native code registered in
// the default registry. The release function stops relaying native events.
func New(_ context.Context, opts Options) (Controller, func(), error) {
	c, release, err := NewRegisteredBridge(bridge.Default(), opts)
	if err != nil {
		return nil, nil, err
	}
	return c, release, nil
}
