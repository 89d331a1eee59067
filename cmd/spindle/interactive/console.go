// Package interactive provides the Lua console for spindle.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/stitchworks/spindle/pkg/device"
	"github.com/stitchworks/spindle/pkg/service"
)

// Poster accepts events for the service loop.
type Poster interface {
	Post(ev service.Event) error
	RequestReset()
}

// Config configures the console.
type Config struct {
	// Service receives each typed line as an ExecLine event.
	Service Poster

	// Registry is listed by the :devices command (optional).
	Registry *device.Registry

	// HistoryFile persists input history across runs (optional).
	HistoryFile string
}

// Console reads Lua from the terminal and hands it to the service loop.
// Lines starting with ':' are console commands.
type Console struct {
	config Config
	rl     *readline.Instance
	out    io.Writer
}

// New creates a console attached to the terminal.
func New(config Config) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lua> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     config.HistoryFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{config: config, rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log and script output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run reads lines until EOF, :quit or ctx is done, then calls cancel.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	fmt.Fprintln(c.out, "Type Lua to evaluate it, :help for console commands.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if c.handle(line) {
			cancel()
			return
		}
	}
}

// handle processes one input line and reports whether the console should exit.
func (c *Console) handle(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}
	if !strings.HasPrefix(input, ":") {
		c.exec(line)
		return false
	}

	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return false
	}
	switch strings.ToLower(parts[0]) {
	case "help", "?":
		c.printHelp()
	case "devices", "ls":
		c.cmdDevices()
	case "reset":
		c.config.Service.RequestReset()
		fmt.Fprintln(c.out, "Runtime reset requested")
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(c.out, "Unknown command: :%s (type :help for commands)\n", parts[0])
	}
	return false
}

func (c *Console) exec(code string) {
	err := c.config.Service.Post(service.ExecLine{Code: code})
	switch {
	case err == nil:
	case errors.Is(err, service.ErrQueueFull):
		fmt.Fprintln(c.out, "Busy, line dropped")
	default:
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) cmdDevices() {
	if c.config.Registry == nil || c.config.Registry.Len() == 0 {
		fmt.Fprintln(c.out, "No devices attached")
		return
	}

	fmt.Fprintf(c.out, "Attached devices (%d):\n", c.config.Registry.Len())
	for _, h := range c.config.Registry.Handles() {
		dev, err := c.config.Registry.Lookup(h)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.out, "  %d  %-5s %-10s %s (%dx%d)\n",
			h.ID+1, dev.Type(), dev.Serial(), dev.Name(), dev.Cols(), dev.Rows())
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Console Commands:
  :devices   - List attached devices (ids as scripts see them)
  :reset     - Rebuild the scripting runtime and rerun the script
  :help      - Show this help
  :quit      - Exit spindle

Anything else is evaluated as Lua. Expressions print their value.`)
}
