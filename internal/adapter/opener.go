package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrNoOpener indicates no command could open the URL
var ErrNoOpener = errors.New("no URL opener available")

// openCommand defines a single way to open a URL
type openCommand struct {
	path string   // Command to run
	args []string // Arguments placed before the URL
}

// candidateOpeners defines the preferred opener order for each platform
var candidateOpeners = map[string][]openCommand{
	"darwin":  {{path: "open"}},
	"linux":   {{path: "xdg-open"}, {path: "gio", args: []string{"open"}}, {path: "wslview"}},
	"windows": {{path: "cmd", args: []string{"/c", "start", ""}}},
}

// Opener opens trailer, torrent and IMDb URLs in an external application
type Opener struct {
	command string   // configured command, empty for system default
	args    []string // additional arguments for the command
	logger  *slog.Logger

	goos     string
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// NewOpener creates an Opener for the configured command, or the system default when empty
func NewOpener(command string, args []string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{
		command:  command,
		args:     args,
		logger:   logger,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens rawURL. Only http, https and magnet URLs are accepted.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return fmt.Errorf("invalid url %q", rawURL)
	}
	switch u.Scheme {
	case "http", "https", "magnet":
	default:
		return fmt.Errorf("refusing to open %q: unsupported scheme", rawURL)
	}

	// Tier 1: User configured a specific command
	if o.command != "" {
		args := append(append([]string{}, o.args...), rawURL)
		o.logger.Info("opening with configured command", "command", o.command, "url", rawURL)
		return o.start(o.command, args...)
	}

	// Tier 2: Platform candidates in order
	candidates, ok := candidateOpeners[o.goos]
	if !ok {
		candidates = candidateOpeners["linux"] // default
	}

	for _, c := range candidates {
		if _, err := o.lookPath(c.path); err != nil {
			o.logger.Debug("opener not available", "command", c.path, "error", err)
			continue
		}
		args := append(append([]string{}, c.args...), rawURL)
		if err := o.start(c.path, args...); err != nil {
			o.logger.Debug("opener failed", "command", c.path, "error", err)
			continue
		}
		o.logger.Info("opened with system default", "os", o.goos, "command", c.path, "url", rawURL)
		return nil
	}

	return ErrNoOpener
}
