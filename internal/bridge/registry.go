package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
)

var (
	ErrEmptyIdentifier = errors.New("plugin identifier must not be empty")
	ErrNilPlugin       = errors.New("plugin must not be nil")
)

// NotRegisteredError is returned by Lookup for an unknown identifier
type NotRegisteredError struct {
	Identifier string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no native plugin registered as %q", e.Identifier)
}

// EventHandler receives events pushed by native code
type EventHandler func(name string, payload map[string]any)

// Registry maps plugin identifiers to native plugins and fans out native
// events. Native code registers from its own thread, so access is locked.
type Registry struct {
	mu       sync.RWMutex
	plugins  map[string]NativePlugin
	handlers map[int]EventHandler
	nextID   int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		plugins:  make(map[string]NativePlugin),
		handlers: make(map[int]EventHandler),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the mobile entry points
func Default() *Registry {
	return defaultRegistry
}

// Register binds plugin to identifier, replacing any previous binding
func (r *Registry) Register(identifier string, plugin NativePlugin) error {
	if identifier == "" {
		return ErrEmptyIdentifier
	}
	if plugin == nil {
		return ErrNilPlugin
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[identifier] = plugin
	return nil
}

// Unregister removes the binding for identifier
func (r *Registry) Unregister(identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plugins, identifier)
}

// Lookup returns the plugin registered under identifier
func (r *Registry) Lookup(identifier string) (NativePlugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[identifier]
	if !ok {
		return nil, &NotRegisteredError{Identifier: identifier}
	}
	return p, nil
}

// Subscribe adds an event handler and returns a function removing it
func (r *Registry) Subscribe(h EventHandler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.handlers[id] = h

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.handlers, id)
	}
}

// Publish decodes a JSON event payload from native code and hands it to every
// subscriber. An empty payload is delivered as an empty map.
func (r *Registry) Publish(name string, payloadJSON string) error {
	if name == "" {
		return errors.New("event name must not be empty")
	}

	payload := map[string]any{}
	if payloadJSON != "" {
		if err := sonic.ConfigStd.UnmarshalFromString(payloadJSON, &payload); err != nil {
			return fmt.Errorf("invalid payload for event %q: %w", name, err)
		}
	}

	r.mu.RLock()
	handlers := make([]EventHandler, 0, len(r.handlers))
	for _, h := range r.handlers {
		handlers = append(handlers, h)
	}
	r.mu.RUnlock()

	for _, h := range handlers {
		h(name, payload)
	}
	return nil
}
