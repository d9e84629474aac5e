package relay

import "context"

// BatchSender sends one batch. *Relay implements it.
type BatchSender interface {
	SendBlendshapes(ctx context.Context, batch Batch) error
}

// PluginConfig is handed to plugins on Initialize.
type PluginConfig struct {
	Logger Logger
	Sender BatchSender
}

// Plugin extends a Relay. Plugins are initialized by Start in registration
// order and shut down by Stop in reverse order.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize starts the plugin. ctx is canceled when the relay stops.
	// An error aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown stops the plugin and waits for its goroutines.
	Shutdown(ctx context.Context) error
}

// BasePlugin implements Plugin with no-op Initialize and Shutdown.
// Embed it and override what the plugin needs.
type BasePlugin struct {
	name string
}

// NewBasePlugin creates a BasePlugin with the given name.
func NewBasePlugin(name string) BasePlugin {
	return BasePlugin{name: name}
}

// Name returns the plugin name.
func (p BasePlugin) Name() string { return p.name }

// Initialize does nothing.
func (BasePlugin) Initialize(ctx context.Context, cfg PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(ctx context.Context) error { return nil }
