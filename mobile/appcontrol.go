package mobile

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"appcontrol/internal/appcontrol"
	"appcontrol/internal/infrastructure/errors"
	"appcontrol/internal/infrastructure/logging"
)

// EventSink receives lifecycle events on the native side. payloadJSON is a
// JSON object.
type EventSink interface {
	OnEvent(name string, payloadJSON string)
}

// swapped in tests
var newController = appcontrol.New

// AppControl runs the app-control operations for native code. Results are
// camelCase JSON documents; failures carry the display message.
//
//	AppControl control = Mobile.new_("dev.appcontrol", sink);
//	String state = control.isAppInForeground();
type AppControl struct {
	mu         sync.RWMutex
	controller appcontrol.Controller
	release    func()
	logger     logging.Logger
}

// New binds to the plugin registered under identifier, or DefaultIdentifier
// when it is empty. Events pushed through EmitEvent are relayed to events,
// which may be nil. The plugin must be registered first.
func New(identifier string, events EventSink) (*AppControl, error) {
	if identifier == "" {
		identifier = DefaultIdentifier
	}
	logger := logging.New("info", false)

	opts := appcontrol.Options{
		PluginIdentifier: identifier,
		Logger:           logger,
	}
	if events != nil {
		opts.Emitter = sinkEmitter(events, logger)
	}

	controller, release, err := newController(context.Background(), opts)
	if err != nil {
		return nil, display(errors.Wrap("init", err))
	}
	if release == nil {
		release = func() {}
	}

	logger.Info("App control bound", "plugin", identifier, "platform", appcontrol.Platform)
	return &AppControl{controller: controller, release: release, logger: logger}, nil
}

func sinkEmitter(sink EventSink, logger logging.Logger) appcontrol.Emitter {
	return appcontrol.EmitterFunc(func(name string, payload map[string]any) {
		if payload == nil {
			payload = map[string]any{}
		}
		encoded, err := sonic.ConfigStd.MarshalToString(payload)
		if err != nil {
			logger.Warn("Dropping event with unencodable payload", "event", name, "error", err.Error())
			return
		}
		sink.OnEvent(name, encoded)
	})
}

// display flattens err to the message native code shows the user
func display(err error) error {
	if err == nil {
		return nil
	}
	return stderrors.New(err.Error())
}

func (c *AppControl) active(op string) (appcontrol.Controller, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.controller == nil {
		return nil, errors.NewInvalidContext(op)
	}
	return c.controller, nil
}

func encode(op string, v any) (string, error) {
	out, err := sonic.ConfigStd.MarshalToString(v)
	if err != nil {
		return "", display(errors.NewUnknownFrom(op, err))
	}
	return out, nil
}

// MinimizeApp returns {"success": bool, "message": string}
func (c *AppControl) MinimizeApp() (string, error) {
	ctrl, err := c.active(appcontrol.OpMinimizeApp)
	if err != nil {
		return "", display(err)
	}
	result, err := ctrl.MinimizeApp(context.Background())
	if err != nil {
		return "", display(err)
	}
	return encode(appcontrol.OpMinimizeApp, result)
}

// CloseApp returns {"success": bool, "message": string}
func (c *AppControl) CloseApp() (string, error) {
	ctrl, err := c.active(appcontrol.OpCloseApp)
	if err != nil {
		return "", display(err)
	}
	result, err := ctrl.CloseApp(context.Background())
	if err != nil {
		return "", display(err)
	}
	return encode(appcontrol.OpCloseApp, result)
}

// ExitApp takes {"removeFromRecents": bool, "killProcess": bool}. Missing
// fields, an empty string or null mean the defaults.
func (c *AppControl) ExitApp(optionsJSON string) (string, error) {
	ctrl, err := c.active(appcontrol.OpExitApp)
	if err != nil {
		return "", display(err)
	}

	var opts *appcontrol.ExitOptions
	if body := strings.TrimSpace(optionsJSON); body != "" && body != "null" {
		opts = &appcontrol.ExitOptions{}
		if err := sonic.ConfigStd.UnmarshalFromString(body, opts); err != nil {
			return "", display(errors.NewUnknownFrom(appcontrol.OpExitApp, err))
		}
	}

	result, err := ctrl.ExitApp(context.Background(), opts)
	if err != nil {
		return "", display(err)
	}
	return encode(appcontrol.OpExitApp, result)
}

// IsAppInForeground returns {"inForeground": bool, "isFinishing": bool} plus
// isDestroyed and packageName when the plugin reports them.
func (c *AppControl) IsAppInForeground() (string, error) {
	ctrl, err := c.active(appcontrol.OpIsAppInForeground)
	if err != nil {
		return "", display(err)
	}
	state, err := ctrl.IsAppInForeground(context.Background())
	if err != nil {
		return "", display(err)
	}
	return encode(appcontrol.OpIsAppInForeground, state)
}

// Close stops relaying events. Later calls fail with "Invalid context".
func (c *AppControl) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.release != nil {
		c.release()
		c.release = nil
	}
	c.controller = nil
	c.logger.Info("App control released")
}
