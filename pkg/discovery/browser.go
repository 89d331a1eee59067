package discovery

import (
	"context"
	"log/slog"
)

// Browser provides mDNS service browsing capabilities.
type Browser interface {
	// BrowseDevices searches for controllers announced by serialosc.
	// A service is emitted once when first seen and again with Removed
	// set when its last address disappears. The channel is closed when
	// the context is cancelled or Stop is called.
	BrowseDevices(ctx context.Context) (<-chan *DeviceService, error)

	// Stop stops all active browsing operations.
	Stop()
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	Logger *slog.Logger
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{}
}
