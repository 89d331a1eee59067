package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchworks/spindle/pkg/config"
	"github.com/stitchworks/spindle/pkg/discovery"
	protolog "github.com/stitchworks/spindle/pkg/log"
)

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spindle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
local_port: "9000"
script: "file.lua"
mdns:
  enabled: false
`), 0o600))

	cfg, err := loadConfig(Flags{
		ConfigFile:  path,
		Script:      "flag.lua",
		NoSerialosc: true,
		MDNS:        true,
	})
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.LocalPort)
	assert.Equal(t, "flag.lua", cfg.Script)
	assert.False(t, cfg.Serialosc.Enabled)
	assert.True(t, cfg.MDNS.Enabled)
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	_, err := loadConfig(Flags{LocalPort: "seventy"})
	assert.ErrorIs(t, err, config.ErrInvalidPort)
}

func TestProtocolLoggerSelection(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	plog, closeFn, err := protocolLogger(logger, slog.LevelInfo, "")
	require.NoError(t, err)
	assert.IsType(t, protolog.NoopLogger{}, plog)
	closeFn()

	plog, closeFn, err = protocolLogger(logger, slog.LevelDebug, "")
	require.NoError(t, err)
	assert.IsType(t, &protolog.SlogAdapter{}, plog)
	closeFn()

	path := filepath.Join(t.TempDir(), "session.plog")
	plog, closeFn, err = protocolLogger(logger, slog.LevelDebug, path)
	require.NoError(t, err)
	assert.IsType(t, &protolog.MultiLogger{}, plog)
	closeFn()
	assert.FileExists(t, path)
}

func TestInstanceName(t *testing.T) {
	assert.Equal(t, "studio", instanceName("studio"))

	name := instanceName("")
	assert.True(t, strings.HasPrefix(name, "spindle"))
	assert.LessOrEqual(t, len(name), discovery.MaxInstanceNameLen)
}
