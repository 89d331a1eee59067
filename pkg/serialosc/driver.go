package serialosc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/log"
	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/value"
)

// DefaultDaemonAddress is where serialosc listens.
const DefaultDaemonAddress = "localhost:12002"

// ErrNoSink is returned by NewDriver without a Sink.
var ErrNoSink = errors.New("serialosc: sink is required")

// Config configures a Driver.
type Config struct {
	// DaemonAddress is the serialosc daemon (default: localhost:12002).
	DaemonAddress string

	// ListenAddress is the driver's own socket (default: 127.0.0.1:0).
	ListenAddress string

	// Host is the address devices send input to (default: 127.0.0.1).
	Host string

	// Registry receives attached devices.
	Registry *device.Registry

	// Sink receives device events.
	Sink Sink

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger records traffic with the daemon and devices (optional).
	ProtocolLogger log.Logger
}

// Driver talks to serialosc and the devices it exposes.
type Driver struct {
	config Config
	logger *slog.Logger
	server *osc.Server
	daemon osc.Address

	mu       sync.Mutex
	bySerial map[string]*entry
	byPort   map[string]*entry
	byPrefix map[string]*entry
}

type entry struct {
	dev      *Device
	handle   device.Handle
	attached bool
}

// NewDriver creates a driver. Call Start to open the socket.
func NewDriver(config Config) (*Driver, error) {
	if config.Sink == nil {
		return nil, ErrNoSink
	}
	if config.Registry == nil {
		config.Registry = device.NewRegistry()
	}
	if config.DaemonAddress == "" {
		config.DaemonAddress = DefaultDaemonAddress
	}
	if config.ListenAddress == "" {
		config.ListenAddress = "127.0.0.1:0"
	}
	if config.Host == "" {
		config.Host = "127.0.0.1"
	}
	host, port, err := net.SplitHostPort(config.DaemonAddress)
	if err != nil {
		return nil, fmt.Errorf("daemon address: %w", err)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := &Driver{
		config:   config,
		logger:   logger,
		daemon:   osc.Address{Host: host, Port: port},
		bySerial: make(map[string]*entry),
		byPort:   make(map[string]*entry),
		byPrefix: make(map[string]*entry),
	}
	d.server, err = osc.NewServer(osc.ServerConfig{
		Address:        config.ListenAddress,
		Logger:         logger,
		ProtocolLogger: config.ProtocolLogger,
		OnMessage:      d.handle,
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Start opens the socket, lists attached devices and subscribes to
// hotplug notifications.
func (d *Driver) Start(ctx context.Context) error {
	if err := d.server.Start(ctx); err != nil {
		return err
	}
	if err := d.send(d.daemon, "/serialosc/list", value.Text(d.config.Host), value.Int(int64(d.port()))); err != nil {
		return fmt.Errorf("serialosc list: %w", err)
	}
	d.notify()
	d.logger.Info("serialosc driver started", "daemon", d.daemon.String(), "listen", d.server.Addr().String())
	return nil
}

// Stop closes the socket.
func (d *Driver) Stop() error {
	return d.server.Stop()
}

// Addr returns the driver's bound address.
func (d *Driver) Addr() net.Addr {
	return d.server.Addr()
}

func (d *Driver) port() int {
	if udp, ok := d.server.Addr().(*net.UDPAddr); ok {
		return udp.Port
	}
	return 0
}

func (d *Driver) send(addr osc.Address, path string, args ...value.Value) error {
	return d.server.Send(addr, osc.NewMessage(path, args...))
}

// notify asks the daemon for the next hotplug event. serialosc forgets
// the subscription after every notification.
func (d *Driver) notify() {
	if err := d.send(d.daemon, "/serialosc/notify", value.Text(d.config.Host), value.Int(int64(d.port()))); err != nil {
		d.logger.Warn("serialosc notify failed", "error", err)
	}
}

// Connect configures a device reachable at addr. It is called for
// daemon announcements and may be called directly for devices found
// another way, such as mDNS.
func (d *Driver) Connect(serial, name string, addr osc.Address) {
	d.mu.Lock()
	if _, ok := d.bySerial[serial]; ok {
		d.mu.Unlock()
		return
	}
	e := &entry{dev: newDevice(d.server, addr, serial, name)}
	d.bySerial[serial] = e
	d.byPort[addr.Port] = e
	d.byPrefix[e.dev.prefix] = e
	d.mu.Unlock()

	d.logger.Info("serialosc device found", "serial", serial, "name", name, "port", addr.Port)

	for _, m := range []*osc.Message{
		osc.NewMessage("/sys/port", value.Int(int64(d.port()))),
		osc.NewMessage("/sys/host", value.Text(d.config.Host)),
		osc.NewMessage("/sys/prefix", value.Text(e.dev.prefix)),
		osc.NewMessage("/sys/info"),
	} {
		if err := d.server.Send(addr, m); err != nil {
			d.logger.Warn("serialosc device setup failed", "serial", serial, "path", m.Path, "error", err)
		}
	}

	// Arcs have a fixed layout; grids wait for /sys/size.
	if e.dev.typ == device.TypeArc {
		d.attach(e)
	}
}

// Disconnect forgets a device and reports its removal.
func (d *Driver) Disconnect(serial string) {
	d.mu.Lock()
	e, ok := d.bySerial[serial]
	var attached bool
	var h device.Handle
	if ok {
		delete(d.bySerial, serial)
		delete(d.byPort, e.dev.addr.Port)
		delete(d.byPrefix, e.dev.prefix)
		attached, h = e.attached, e.handle
	}
	d.mu.Unlock()
	if !ok {
		return
	}

	d.logger.Info("serialosc device removed", "serial", serial)
	if attached {
		d.config.Sink.DeviceRemoved(h)
	}
}

func (d *Driver) attach(e *entry) {
	d.mu.Lock()
	if e.attached {
		d.mu.Unlock()
		return
	}
	e.attached = true
	e.handle = d.config.Registry.Attach(e.dev)
	d.mu.Unlock()

	d.config.Sink.DeviceAdded(e.handle, e.dev.serial, e.dev.name)
}

// handle runs on the server's read goroutine.
func (d *Driver) handle(from osc.Address, msg *osc.Message) {
	switch msg.Path {
	case "/serialosc/device", "/serialosc/add":
		serial, name, port, ok := announcement(msg)
		if !ok {
			d.logger.Warn("malformed serialosc announcement", "msg", msg.String())
			return
		}
		host := d.daemon.Host
		d.Connect(serial, name, osc.Address{Host: host, Port: strconv.Itoa(port)})
		if msg.Path == "/serialosc/add" {
			d.notify()
		}
		return

	case "/serialosc/remove":
		serial, _, _, ok := announcement(msg)
		if ok {
			d.Disconnect(serial)
		}
		d.notify()
		return
	}

	if strings.HasPrefix(msg.Path, "/sys/") {
		d.handleSys(from, msg)
		return
	}
	d.handleInput(msg)
}

func (d *Driver) handleSys(from osc.Address, msg *osc.Message) {
	d.mu.Lock()
	e, ok := d.byPort[from.Port]
	d.mu.Unlock()
	if !ok {
		d.logger.Debug("sys message from unknown device", "from", from.String(), "path", msg.Path)
		return
	}

	switch msg.Path {
	case "/sys/size":
		ints, ok := intArgs(msg, 2)
		if !ok {
			return
		}
		cols, rows := ints[0], ints[1]
		if e.dev.typ == device.TypeGrid && (rows != e.dev.Rows() || cols != e.dev.Cols()) {
			e.dev.resize(rows, cols)
		}
		d.attach(e)
	case "/sys/rotation":
		if ints, ok := intArgs(msg, 1); ok {
			d.logger.Debug("device rotation", "serial", e.dev.serial, "degrees", ints[0])
		}
	}
}

func (d *Driver) handleInput(msg *osc.Message) {
	var (
		prefix string
		h      device.Handle
		found  bool
	)
	d.mu.Lock()
	for p, e := range d.byPrefix {
		if strings.HasPrefix(msg.Path, p+"/") && e.attached {
			prefix, h, found = p, e.handle, true
			break
		}
	}
	d.mu.Unlock()
	if !found {
		d.logger.Debug("input for unknown device", "path", msg.Path)
		return
	}

	sink := d.config.Sink
	switch strings.TrimPrefix(msg.Path, prefix) {
	case "/grid/key":
		if v, ok := intArgs(msg, 3); ok {
			sink.GridKey(h, v[0], v[1], v[2] != 0)
		}
	case "/tilt":
		if v, ok := intArgs(msg, 4); ok {
			sink.GridTilt(h, v[0], v[1], v[2], v[3])
		}
	case "/enc/delta":
		if v, ok := intArgs(msg, 2); ok {
			sink.ArcDelta(h, v[0], v[1])
		}
	case "/enc/key":
		if v, ok := intArgs(msg, 2); ok {
			sink.ArcKey(h, v[0], v[1] != 0)
		}
	default:
		d.logger.Debug("unhandled device message", "path", msg.Path)
	}
}

// announcement decodes /serialosc/device|add|remove ssi.
func announcement(msg *osc.Message) (serial, name string, port int, ok bool) {
	if len(msg.Args) != 3 {
		return "", "", 0, false
	}
	serial, ok1 := msg.Args[0].Text()
	name, ok2 := msg.Args[1].Text()
	p, ok3 := msg.Args[2].Number()
	return serial, name, int(p), ok1 && ok2 && ok3
}

// intArgs returns the first n arguments as ints. serialosc sends int32,
// but floats are accepted.
func intArgs(msg *osc.Message, n int) ([]int, bool) {
	if len(msg.Args) < n {
		return nil, false
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		f, ok := msg.Args[i].Number()
		if !ok {
			return nil, false
		}
		out[i] = int(f)
	}
	return out, true
}

// Devices returns the known devices, attached or not.
func (d *Driver) Devices() []*Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Device, 0, len(d.bySerial))
	for _, e := range d.bySerial {
		out = append(out, e.dev)
	}
	return out
}
