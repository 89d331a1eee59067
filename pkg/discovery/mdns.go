package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// MDNSAdvertiser implements the Advertiser interface using zeroconf.
type MDNSAdvertiser struct {
	config AdvertiserConfig
	logger *slog.Logger

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewMDNSAdvertiser creates a new mDNS advertiser.
func NewMDNSAdvertiser(config AdvertiserConfig) (*MDNSAdvertiser, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MDNSAdvertiser{
		config: config,
		logger: logger,
	}, nil
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func getInterfaces(name string) []net.Interface {
	if name == "" {
		return nil
	}

	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts advertising the bridge's OSC endpoint.
func (a *MDNSAdvertiser) Advertise(ctx context.Context, info *AdvertiseInfo) error {
	if err := ValidateInstanceName(info.InstanceName); err != nil {
		return err
	}
	if info.Port == 0 {
		return fmt.Errorf("%w: 0", ErrInvalidPort)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	var opts []zeroconf.ServerOption
	if a.config.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.config.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		info.InstanceName,
		ServiceTypeOSC,
		Domain,
		int(info.Port),
		TXTRecordsToStrings(EncodeBridgeTXT(info)),
		getInterfaces(a.config.Interface),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register OSC service: %w", err)
	}

	a.server = server
	a.logger.Info("advertising OSC endpoint", "instance", info.InstanceName, "port", info.Port)
	return nil
}

// Update replaces the TXT records of the active advertisement.
func (a *MDNSAdvertiser) Update(info *AdvertiseInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotAdvertising
	}
	a.server.SetText(TXTRecordsToStrings(EncodeBridgeTXT(info)))
	return nil
}

// Stop withdraws the advertisement.
func (a *MDNSAdvertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
		a.logger.Info("stopped advertising OSC endpoint")
	}
	return nil
}

// MDNSBrowser implements the Browser interface using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
	logger *slog.Logger

	mu      sync.Mutex
	stopped bool
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) (*MDNSBrowser, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MDNSBrowser{
		config: config,
		logger: logger,
	}, nil
}

// BrowseDevices searches for controllers announced by serialosc.
// Services are aggregated by instance name - addresses from multiple
// interfaces are combined into a single entry.
func (b *MDNSBrowser) BrowseDevices(ctx context.Context) (<-chan *DeviceService, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, ErrBrowserStopped
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	out := make(chan *DeviceService)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		defer close(out)
		agg := newAggregator()

		for {
			var svc *DeviceService
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				svc = agg.add(entryToDevice(entry))

			case entry, ok := <-removed:
				if !ok {
					removed = nil
					continue
				}
				svc = agg.remove(entry.Instance, entryAddresses(entry))

			case <-ctx.Done():
				return
			}

			if svc == nil {
				continue
			}
			b.logger.Debug("device service", "instance", svc.InstanceName, "port", svc.Port, "removed", svc.Removed)
			select {
			case out <- svc:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		if err := zeroconf.Browse(ctx, ServiceTypeMonome, Domain, entries, removed, opts...); err != nil {
			b.logger.Warn("mDNS browse failed", "service", ServiceTypeMonome, "error", err)
		}
	}()

	return out, nil
}

// Stop stops all active browsing operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if ifaces := getInterfaces(b.config.Interface); ifaces != nil {
		opts = append(opts, zeroconf.SelectIfaces(ifaces))
	}

	return opts
}

// entryToDevice converts a zeroconf entry to DeviceService.
func entryToDevice(entry *zeroconf.ServiceEntry) *DeviceService {
	name, serial := ParseInstance(entry.Instance)
	return &DeviceService{
		InstanceName: entry.Instance,
		Serial:       serial,
		Name:         name,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    entryAddresses(entry),
	}
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// aggregator tracks services by instance name. add and remove return the
// snapshot to emit, or nil when nothing observable changed.
type aggregator struct {
	services map[string]*DeviceService
}

func newAggregator() *aggregator {
	return &aggregator{services: make(map[string]*DeviceService)}
}

func (a *aggregator) add(svc *DeviceService) *DeviceService {
	if svc == nil || svc.InstanceName == "" {
		return nil
	}
	existing, found := a.services[svc.InstanceName]
	if !found {
		a.services[svc.InstanceName] = svc
		return svc.clone()
	}

	existing.Addresses = mergeAddresses(existing.Addresses, svc.Addresses)
	if existing.Port != svc.Port && svc.Port != 0 {
		// Replugged devices come back on a new port.
		existing.Port = svc.Port
		existing.Host = svc.Host
		return existing.clone()
	}
	return nil
}

func (a *aggregator) remove(instance string, addrs []string) *DeviceService {
	existing, found := a.services[instance]
	if !found {
		return nil
	}
	existing.Addresses = removeAddresses(existing.Addresses, addrs)
	if len(existing.Addresses) > 0 && len(addrs) > 0 {
		return nil
	}
	delete(a.services, instance)
	gone := existing.clone()
	gone.Removed = true
	return gone
}

func (s *DeviceService) clone() *DeviceService {
	c := *s
	c.Addresses = append([]string(nil), s.Addresses...)
	return &c
}

// mergeAddresses adds new addresses to existing list, avoiding duplicates.
func mergeAddresses(existing, new []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range new {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the given addresses from the list.
func removeAddresses(addresses, gone []string) []string {
	toRemove := make(map[string]bool, len(gone))
	for _, addr := range gone {
		toRemove[addr] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}

// Ensure MDNSAdvertiser implements Advertiser interface.
var _ Advertiser = (*MDNSAdvertiser)(nil)

// Ensure MDNSBrowser implements Browser interface.
var _ Browser = (*MDNSBrowser)(nil)
