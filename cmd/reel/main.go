package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source"
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/service"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
	"github.com/mmcdole/reel/internal/web"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	app := &cli.App{
		Name:      "reel",
		Usage:     "browse a movie catalog from the terminal",
		Version:   Version,
		ArgsUsage: "[location]",
		Description: "Starts the terminal browser. The optional location opens a view directly,\n" +
			"for example /listing?genres=Action&rating=7 or /movie/10.",
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "serve the catalog as web pages and JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (defaults to web.addr from the config)",
					},
				},
				Action: runServe,
			},
			{
				Name:  "cache",
				Usage: "manage the local cache",
				Subcommands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "remove cached pages, movies and the last location",
						Action: runCacheClear,
					},
				},
			},
			{
				Name:  "config",
				Usage: "inspect the configuration",
				Subcommands: []*cli.Command{
					{
						Name:  "path",
						Usage: "print the config file path",
						Action: func(c *cli.Context) error {
							fmt.Println(adapter.ConfigFile())
							return nil
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// services holds everything built from the config
type services struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	cache   *store.CatalogStore
	catalog *service.CatalogService
	closers []io.Closer
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			s.logger.Warn("close failed", "error", err)
		}
	}
}

// openServices wires the provider client, cache and catalog service.
// logTo overrides the configured log file when non-nil.
func openServices(cfg *adapter.Config, logTo io.Writer) (*services, error) {
	s := &services{cfg: cfg}

	if logTo != nil {
		s.logger = adapter.NewLogger(logTo, cfg.Logging.Level)
	} else {
		logger, closer, err := adapter.SetupLogger(&cfg.Logging)
		if err != nil {
			// Fall back to null logger if file logging fails
			logger = adapter.NullLogger()
		} else {
			s.closers = append(s.closers, closer)
		}
		s.logger = logger
	}
	slog.SetDefault(s.logger)

	client, err := source.NewClientFromConfig(cfg, s.logger)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create provider client: %w", err)
	}

	cache, err := store.NewCatalogStore(cfg.CacheDir(), cfg.API.BaseURL, cfg.Cache.TTL)
	if err != nil {
		s.logger.Warn("cache unavailable, continuing without persistence", "error", err)
		cache, _ = store.NewCatalogStore("", "", cfg.Cache.TTL)
	}
	s.cache = cache
	s.closers = append(s.closers, cache)

	s.catalog = service.NewCatalogService(client, cache, s.logger)
	return s, nil
}

func runTUI(c *cli.Context) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("reel needs an interactive terminal; use `reel serve` for the web view")
	}

	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	svc, err := openServices(cfg, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	logger := svc.logger
	logger.Info("starting reel", "version", Version)

	// An explicit location wins over the one remembered from the last run
	start := c.Args().First()
	if start == "" {
		if loc, ok := svc.cache.LastLocation(); ok {
			start = loc
		}
	}

	browser := browse.NewStore(svc.catalog, logger, browse.WithSearchDebounce(cfg.Browse.SearchDebounce))
	defer func() {
		browser.Close()
		browser.Wait()
	}()

	model := tui.NewModel(browser, tui.Options{
		StartLocation: start,
		Sessions:      svc.cache,
		Opener:        adapter.NewOpener(cfg.Opener.Command, cfg.Opener.Args, logger),
		Logger:        logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "location", start)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func runServe(c *cli.Context) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// No TUI owns the terminal here, so logs go to stderr
	svc, err := openServices(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer svc.Close()

	server, err := web.New(web.Config{
		Catalog:        svc.catalog,
		Logger:         svc.logger,
		AllowedOrigins: cfg.Web.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	addr := cfg.Web.Addr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving on http://%s\n", addr)
	return server.ListenAndServe(ctx, addr)
}

func runCacheClear(c *cli.Context) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := cfg.CacheDir()
	if dir == "" {
		fmt.Println("Cache is disabled; nothing to clear.")
		return nil
	}
	if err := adapter.ClearCache(dir); err != nil {
		return err
	}
	fmt.Printf("Cleared cache at %s\n", dir)
	return nil
}

// runSetupFlow asks for the provider API key when none is configured
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to reel!")
	fmt.Println()
	fmt.Printf("Movies are fetched from %s.\n", cfg.API.BaseURL)

	for {
		fmt.Print("Enter your API key (input hidden): ")
		key, err := readSecret()
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if key == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}
		cfg.API.Key = key
		break
	}

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Configuration saved to %s\n", adapter.ConfigFile())
	fmt.Println()
	return nil
}

// readSecret reads a line without echo when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line), err
}
