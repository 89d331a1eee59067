package discovery

import (
	"context"
	"log/slog"
	"time"
)

// Advertiser provides mDNS service advertising capabilities.
type Advertiser interface {
	// Advertise starts advertising the OSC endpoint. Calling it again
	// replaces the previous registration.
	Advertise(ctx context.Context, info *AdvertiseInfo) error

	// Update replaces the TXT records of the active registration.
	Update(info *AdvertiseInfo) error

	// Stop withdraws the advertisement.
	Stop() error
}

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL.
	// Default: 120 seconds.
	TTL time.Duration

	Logger *slog.Logger
}

// DefaultAdvertiserConfig returns the default advertiser configuration.
func DefaultAdvertiserConfig() AdvertiserConfig {
	return AdvertiserConfig{
		Interface: "",
		TTL:       DefaultTTL,
	}
}
