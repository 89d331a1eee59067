// Command spindle bridges OSC and monome grids/arcs to a Lua script.
//
// The script receives grid keys, tilt, arc encoders and OSC messages as
// Lua callbacks and drives LEDs and outbound OSC through the bridge's
// command surface.
//
// Usage:
//
//	spindle [flags]
//
// Flags:
//
//	-config string        YAML configuration file
//	-script string        Lua script to run
//	-local-port string    OSC listen port (default "7777")
//	-remote-port string   Port exposed to scripts for replies (default "6666")
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Record protocol events to a .plog file
//	-no-serialosc         Do not talk to the serialosc daemon
//	-mdns                 Advertise over mDNS and browse for devices
//	-interactive          Start a Lua console on the terminal
//
// Examples:
//
//	# Run a script with the default ports
//	spindle -script sequencer.lua
//
//	# Record a session while experimenting at the console
//	spindle -script sequencer.lua -interactive -protocol-log session.plog
//
// The Lua config file is read from $SPINDLE_CONFIG, or
// /usr/local/share/spindle/lua/config.lua when unset.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/stitchworks/spindle/cmd/spindle/interactive"
	"github.com/stitchworks/spindle/pkg/bridge"
	"github.com/stitchworks/spindle/pkg/config"
	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/discovery"
	protolog "github.com/stitchworks/spindle/pkg/log"
	"github.com/stitchworks/spindle/pkg/osc"
	"github.com/stitchworks/spindle/pkg/serialosc"
	"github.com/stitchworks/spindle/pkg/service"
)

// Flags holds command-line overrides. Empty values keep the file setting.
type Flags struct {
	ConfigFile  string
	Script      string
	LocalPort   string
	RemotePort  string
	LogLevel    string
	ProtocolLog string
	NoSerialosc bool
	MDNS        bool
	Interactive bool
	HistoryFile string
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "YAML configuration file")
	flag.StringVar(&flags.Script, "script", "", "Lua script to run")
	flag.StringVar(&flags.LocalPort, "local-port", "", "OSC listen port (default 7777)")
	flag.StringVar(&flags.RemotePort, "remote-port", "", "Port exposed to scripts for replies (default 6666)")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "Record protocol events to a .plog file")
	flag.BoolVar(&flags.NoSerialosc, "no-serialosc", false, "Do not talk to the serialosc daemon")
	flag.BoolVar(&flags.MDNS, "mdns", false, "Advertise over mDNS and browse for devices")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start a Lua console on the terminal")
	flag.StringVar(&flags.HistoryFile, "history", "", "Console history file")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(flags)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	localPort, _ := config.ParsePort(cfg.LocalPort)
	remotePort, _ := config.ParsePort(cfg.RemotePort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := device.NewRegistry()

	// The console must exist before anything logs so output goes
	// through readline instead of over the prompt.
	var console *interactive.Console
	var out io.Writer = os.Stdout
	var svc *service.Service
	if flags.Interactive {
		console, err = interactive.New(interactive.Config{
			Service:     &lazyService{svc: &svc},
			Registry:    registry,
			HistoryFile: flags.HistoryFile,
		})
		if err != nil {
			log.Fatalf("Failed to create console: %v", err)
		}
		out = console.Stdout()
		log.SetOutput(console.Stderr())
	}

	logger := slog.New(slog.NewTextHandler(errWriter(console), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	plog, closeLog, err := protocolLogger(logger, level, cfg.ProtocolLog)
	if err != nil {
		log.Fatalf("Failed to open protocol log: %v", err)
	}
	defer closeLog()

	log.Println("spindle")
	log.Printf("OSC listen port: %d, remote port: %d", localPort, remotePort)
	if cfg.Script != "" {
		log.Printf("Script: %s", cfg.Script)
	}

	server, err := osc.NewServer(osc.ServerConfig{
		Address:        fmt.Sprintf(":%d", localPort),
		Logger:         logger.With("component", "osc"),
		ProtocolLogger: plog,
		OnMessage: func(from osc.Address, msg *osc.Message) {
			svc.OSCMessage(from, msg)
		},
		OnError: func(from osc.Address, err error) {
			logger.Warn("dropping malformed OSC packet", "from", from.String(), "error", err)
		},
	})
	if err != nil {
		log.Fatalf("Failed to create OSC server: %v", err)
	}

	svc, err = service.New(service.Config{
		Registry:       registry,
		Sender:         server,
		Script:         cfg.Script,
		LocalPort:      cfg.LocalPort,
		RemotePort:     cfg.RemotePort,
		LuaConfigPath:  bridge.ConfigPathFromEnv(),
		QueueSize:      cfg.QueueSize,
		Stdout:         out,
		Logger:         logger.With("component", "service"),
		ProtocolLogger: plog,
	})
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	// Scripts may send from init, so the socket has to be open first.
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Failed to start OSC server: %v", err)
	}
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("Failed to start service: %v", err)
	}
	log.Printf("Service started (state: %s)", svc.State())

	var driver *serialosc.Driver
	if cfg.Serialosc.Enabled {
		driver, err = serialosc.NewDriver(serialosc.Config{
			DaemonAddress:  cfg.Serialosc.Address,
			Registry:       registry,
			Sink:           svc,
			Logger:         logger.With("component", "serialosc"),
			ProtocolLogger: plog,
		})
		if err != nil {
			log.Fatalf("Failed to create serialosc driver: %v", err)
		}
		if err := driver.Start(ctx); err != nil {
			log.Printf("Warning: serialosc unavailable: %v", err)
			driver = nil
		}
	}

	var advertiser *discovery.MDNSAdvertiser
	if cfg.MDNS.Enabled {
		advertiser = startDiscovery(ctx, cfg, localPort, remotePort, driver, logger)
	}

	if console != nil {
		go console.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Console quit
	}

	log.Println("Shutting down...")
	cancel()

	if advertiser != nil {
		_ = advertiser.Stop()
	}
	if driver != nil {
		if err := driver.Stop(); err != nil {
			log.Printf("Error stopping serialosc driver: %v", err)
		}
	}
	if err := svc.Stop(); err != nil {
		log.Printf("Error stopping service: %v", err)
	}
	if err := server.Stop(); err != nil {
		log.Printf("Error stopping OSC server: %v", err)
	}

	log.Println("Goodbye!")
}

// loadConfig reads the YAML file, if any, and applies flag overrides.
func loadConfig(f Flags) (config.Config, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(f.ConfigFile); err != nil {
			return cfg, err
		}
	}

	if f.Script != "" {
		cfg.Script = f.Script
	}
	if f.LocalPort != "" {
		cfg.LocalPort = f.LocalPort
	}
	if f.RemotePort != "" {
		cfg.RemotePort = f.RemotePort
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.ProtocolLog != "" {
		cfg.ProtocolLog = f.ProtocolLog
	}
	if f.NoSerialosc {
		cfg.Serialosc.Enabled = false
	}
	if f.MDNS {
		cfg.MDNS.Enabled = true
	}
	return cfg, cfg.Validate()
}

// protocolLogger builds the protocol event sink. Events go to the
// operational log at debug level and, when path is set, to a CBOR file.
func protocolLogger(logger *slog.Logger, level slog.Level, path string) (protolog.Logger, func(), error) {
	var loggers []protolog.Logger
	if level <= slog.LevelDebug {
		loggers = append(loggers, protolog.NewSlogAdapter(logger.With("component", "protocol")))
	}

	closeFn := func() {}
	if path != "" {
		file, err := protolog.NewFileLogger(path)
		if err != nil {
			return nil, closeFn, err
		}
		loggers = append(loggers, file)
		closeFn = func() { _ = file.Close() }
	}

	switch len(loggers) {
	case 0:
		return protolog.NoopLogger{}, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return protolog.NewMultiLogger(loggers...), closeFn, nil
	}
}

// startDiscovery advertises the OSC port and connects to devices that
// serialosc announces over mDNS.
func startDiscovery(ctx context.Context, cfg config.Config, localPort, remotePort uint16,
	driver *serialosc.Driver, logger *slog.Logger) *discovery.MDNSAdvertiser {
	mlog := logger.With("component", "mdns")

	advCfg := discovery.DefaultAdvertiserConfig()
	advCfg.Interface = cfg.MDNS.Interface
	advCfg.Logger = mlog
	advertiser, err := discovery.NewMDNSAdvertiser(advCfg)
	if err != nil {
		log.Printf("Warning: mDNS advertiser unavailable: %v", err)
		return nil
	}
	if err := advertiser.Advertise(ctx, &discovery.AdvertiseInfo{
		InstanceName: instanceName(cfg.MDNS.Name),
		Port:         localPort,
		RemotePort:   remotePort,
	}); err != nil {
		log.Printf("Warning: failed to advertise: %v", err)
	}

	if driver == nil {
		return advertiser
	}

	browser, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{
		Interface: cfg.MDNS.Interface,
		Logger:    mlog,
	})
	if err != nil {
		log.Printf("Warning: mDNS browser unavailable: %v", err)
		return advertiser
	}
	services, err := browser.BrowseDevices(ctx)
	if err != nil {
		log.Printf("Warning: failed to browse for devices: %v", err)
		return advertiser
	}
	go func() {
		for svc := range services {
			if svc.Removed {
				driver.Disconnect(svc.Serial)
				continue
			}
			host := svc.Host
			if len(svc.Addresses) > 0 {
				host = svc.Addresses[0]
			}
			driver.Connect(svc.Serial, svc.Name, osc.Address{
				Host: host,
				Port: strconv.Itoa(int(svc.Port)),
			})
		}
	}()
	return advertiser
}

func instanceName(name string) string {
	if name != "" {
		return name
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "spindle"
	}
	name = "spindle on " + host
	if len(name) > discovery.MaxInstanceNameLen {
		name = name[:discovery.MaxInstanceNameLen]
	}
	return name
}

func errWriter(console *interactive.Console) io.Writer {
	if console != nil {
		return console.Stderr()
	}
	return os.Stderr
}

// lazyService lets the console be built before the service it posts to.
// The console only reads input once Run starts, after the service exists.
type lazyService struct {
	svc **service.Service
}

func (l *lazyService) Post(ev service.Event) error {
	return (*l.svc).Post(ev)
}

func (l *lazyService) RequestReset() {
	(*l.svc).RequestReset()
}
