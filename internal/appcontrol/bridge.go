package appcontrol

import (
	"context"
	"time"

	"appcontrol/internal/bridge"
	"appcontrol/internal/infrastructure/errors"
	"appcontrol/internal/infrastructure/logging"
)

// Gateway is the foreign-call boundary the mobile bridge talks through
type Gateway interface {
	Invoke(ctx context.Context, method string, payload any, out any) error
}

// Bridge implements Controller by forwarding every operation to the native
// plugin. All platform logic lives on the other side of the gateway.
type Bridge struct {
	gateway Gateway
	logger  logging.Logger
}

var _ Controller = (*Bridge)(nil)

// NewBridge creates a bridge controller over gateway
func NewBridge(gateway Gateway, logger logging.Logger) *Bridge {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Bridge{gateway: gateway, logger: logger}
}

// NewRegisteredBridge looks identifier up in registry and wires its native
// events to emitter. A missing registration is reported as Unknown.
func NewRegisteredBridge(registry *bridge.Registry, opts Options) (*Bridge, func(), error) {
	identifier := opts.PluginIdentifier
	if identifier == "" {
		identifier = DefaultPluginIdentifier
	}

	plugin, err := registry.Lookup(identifier)
	if err != nil {
		return nil, nil, errors.NewUnknownFrom("init", err)
	}

	emitter := opts.emitter()
	unsubscribe := registry.Subscribe(func(name string, payload map[string]any) {
		emitter.Emit(name, payload)
	})

	gw := bridge.NewGateway(identifier, plugin, opts.logger())
	return NewBridge(gw, opts.logger()), unsubscribe, nil
}

func (b *Bridge) call(ctx context.Context, op, method string, payload any, out any) error {
	started := time.Now()
	if b.gateway == nil {
		return observe(b.logger, op, started, errors.NewInvalidContext(op), nil)
	}
	err := b.gateway.Invoke(ctx, method, payload, out)
	return observe(b.logger, op, started, err, map[string]interface{}{"method": method})
}

func (b *Bridge) MinimizeApp(ctx context.Context) (MinimizeResult, error) {
	var result MinimizeResult
	if err := b.call(ctx, OpMinimizeApp, MethodMinimizeApp, nil, &result); err != nil {
		return MinimizeResult{}, err
	}
	return result, nil
}

func (b *Bridge) CloseApp(ctx context.Context) (CloseResult, error) {
	var result CloseResult
	if err := b.call(ctx, OpCloseApp, MethodCloseApp, nil, &result); err != nil {
		return CloseResult{}, err
	}
	return result, nil
}

// ExitApp sends the resolved options, so a nil opts reaches native code as
// the explicit defaults.
func (b *Bridge) ExitApp(ctx context.Context, opts *ExitOptions) (ExitResult, error) {
	var result ExitResult
	if err := b.call(ctx, OpExitApp, MethodExitApp, opts.Resolve(), &result); err != nil {
		return ExitResult{}, err
	}
	return result, nil
}

func (b *Bridge) IsAppInForeground(ctx context.Context) (AppState, error) {
	var state AppState
	if err := b.call(ctx, OpIsAppInForeground, MethodIsAppInForeground, nil, &state); err != nil {
		return AppState{}, err
	}
	return state, nil
}
