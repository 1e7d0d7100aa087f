package bridge

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"appcontrol/internal/infrastructure/errors"
	"appcontrol/internal/infrastructure/logging"
)

// Gateway performs typed request/response calls against one native plugin
type Gateway struct {
	identifier string
	plugin     NativePlugin
	logger     logging.Logger
}

// NewGateway wraps plugin. identifier is only used for log context.
func NewGateway(identifier string, plugin NativePlugin, logger logging.Logger) *Gateway {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Gateway{identifier: identifier, plugin: plugin, logger: logger}
}

// Identifier returns the identifier the plugin was registered under
func (g *Gateway) Identifier() string {
	return g.identifier
}

// Invoke encodes payload, runs method on the native plugin and decodes the
// response into out. A nil payload is sent as an empty object. Native
// rejections become PluginInvoke errors; codec failures become Unknown.
func (g *Gateway) Invoke(ctx context.Context, method string, payload any, out any) error {
	if g == nil || g.plugin == nil {
		return errors.NewInvalidContext(method)
	}
	if ctx != nil && ctx.Err() != nil {
		return errors.NewUnknownFrom(method, ctx.Err())
	}

	callID := uuid.NewString()
	started := time.Now()

	body := "{}"
	if payload != nil {
		encoded, err := sonic.ConfigStd.MarshalToString(payload)
		if err != nil {
			return errors.NewUnknownFrom(method, err).WithContext("call_id", callID)
		}
		body = encoded
	}

	g.logger.Debug("Invoking native plugin",
		"plugin", g.identifier,
		"method", method,
		"call_id", callID,
	)

	resp, err := g.plugin.Run(method, body)
	if err != nil {
		native := ParseNativeError(err)
		ctrlErr := errors.NewPluginInvokeError(method, native).
			WithContext("plugin", g.identifier).
			WithContext("call_id", callID)
		if native.Code != "" {
			ctrlErr.WithContext("native_code", native.Code)
		}
		return ctrlErr
	}

	if out != nil {
		if resp == "" {
			resp = "{}"
		}
		if err := sonic.ConfigStd.UnmarshalFromString(resp, out); err != nil {
			return errors.NewUnknownFrom(method, err).WithContext("call_id", callID)
		}
	}

	g.logger.Debug("Native plugin returned",
		"plugin", g.identifier,
		"method", method,
		"call_id", callID,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}
