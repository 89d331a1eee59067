package bridge

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/log"
	"github.com/stitchworks/spindle/pkg/osc"
	lua "github.com/yuin/gopher-lua"
)

// ConfigEnv names the environment variable holding the Lua config path.
const ConfigEnv = "SPINDLE_CONFIG"

// DefaultConfigPath is used when ConfigEnv is unset.
const DefaultConfigPath = "/usr/local/share/spindle/lua/config.lua"

// GlobalName is the Lua global holding the command surface and handlers.
const GlobalName = "bridge"

//go:embed lua/core.lua
var coreLua string

// Config configures a Runtime.
type Config struct {
	// Registry resolves device handles passed in from scripts.
	Registry *device.Registry

	// Sender delivers outbound OSC messages.
	Sender osc.Sender

	// LocalPort and RemotePort are exposed to scripts as text.
	LocalPort  string
	RemotePort string

	// ConfigPath is the Lua config file run before the core library.
	// Empty means ConfigPathFromEnv.
	ConfigPath string

	// OnReset is called by reset_runtime. It must only record the
	// request; the owner rebuilds the runtime later.
	OnReset func()

	// Stdout receives print output and REPL results (default os.Stdout).
	Stdout io.Writer

	// SessionID tags protocol events from this runtime generation.
	SessionID string

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger records device commands issued by scripts (optional).
	ProtocolLogger log.Logger
}

// ConfigPathFromEnv returns the Lua config path from the environment,
// falling back to DefaultConfigPath.
func ConfigPathFromEnv() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Runtime is one generation of the scripting environment.
type Runtime struct {
	config Config
	L      *lua.LState
	bridge *lua.LTable
	logger *slog.Logger
	plog   log.Logger
	stdout io.Writer
	closed bool
}

// NewRuntime creates a Lua state, installs the command surface, runs the
// Lua config file and loads the core library.
func NewRuntime(config Config) (*Runtime, error) {
	if config.Registry == nil {
		config.Registry = device.NewRegistry()
	}
	if config.ConfigPath == "" {
		config.ConfigPath = ConfigPathFromEnv()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	stdout := config.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	r := &Runtime{
		config: config,
		L:      lua.NewState(),
		logger: logger,
		plog:   log.OrNoop(config.ProtocolLogger),
		stdout: stdout,
	}

	registerErrorType(r.L)
	registerHandleType(r.L)
	r.L.SetGlobal("print", r.L.NewFunction(r.luaPrint))

	r.bridge = r.L.NewTable()
	r.registerCommands(r.bridge)
	r.bridge.RawSetString("local_port", lua.LString(config.LocalPort))
	r.bridge.RawSetString("remote_port", lua.LString(config.RemotePort))
	r.L.SetGlobal(GlobalName, r.bridge)

	r.runConfigFile()

	if err := r.L.DoString(coreLua); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("load core library: %w", err)
	}

	logger.Info("lua runtime started", "session", config.SessionID, "config", config.ConfigPath)
	return r, nil
}

// runConfigFile runs the Lua config. Failures are reported, not fatal.
func (r *Runtime) runConfigFile() {
	path := r.config.ConfigPath
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("lua config file not found", "path", path)
		} else {
			r.logger.Warn("lua config file unreadable", "path", path, "error", err)
		}
		return
	}
	r.logger.Debug("running lua config file", "path", path)
	if err := r.L.DoFile(path); err != nil {
		r.logger.Error("lua config file failed", "path", path, "error", luaErrorText(err))
	}
}

// Startup invokes the global _startup function with the entry script.
func (r *Runtime) Startup(script string) error {
	if r.closed {
		return ErrRuntimeClosed
	}
	fn, ok := r.L.GetGlobal("_startup").(*lua.LFunction)
	if !ok {
		return fmt.Errorf("_startup: %w", ErrHandlerMissing)
	}
	return r.call("_startup", fn, lua.LString(script))
}

// SessionID returns the generation's session identifier.
func (r *Runtime) SessionID() string {
	return r.config.SessionID
}

// Close releases the Lua state. The runtime is unusable afterwards.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
	r.logger.Info("lua runtime stopped", "session", r.config.SessionID)
}

func (r *Runtime) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, top)
	for i := 1; i <= top; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(r.stdout, strings.Join(parts, "\t"))
	return 0
}
