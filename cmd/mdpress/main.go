// Command mdpress runs the markdown-to-PDF tool server.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/automaxprocs/maxprocs"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/config"
	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/logging"
	"github.com/alnah/go-mdpress/internal/server"
)

// ErrStylesheetNotFound indicates the configured stylesheet path does not exist.
var ErrStylesheetNotFound = errors.New("stylesheet not found")

// Version is set at build time via ldflags.
var Version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	flags, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if flags.version {
		fmt.Println("mdpress " + Version)
		return
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if err := run(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(flags *serveFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = mdpress.DefaultOutputDir()
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	// Fail at boot rather than on the first conversion.
	if cfg.Document.Stylesheet != "" && !fileutil.FileExists(cfg.Document.Stylesheet) {
		return fmt.Errorf("%w: %s", ErrStylesheetNotFound, cfg.Document.Stylesheet)
	}

	logging.InitLogger(
		cfg.Logger.File,
		cfg.Logger.MaxSizeMB,
		cfg.Logger.MaxBackups,
		cfg.Logger.MaxAgeDays,
		cfg.Logger.Compress,
		cfg.Logger.Level,
	)
	logging.SetLogLevel(cfg.Logger.Level)

	svc := newService(cfg)
	defer func() {
		if err := svc.Close(); err != nil {
			logging.Warn("closing service", "error", err)
		}
	}()

	app := server.New(server.Deps{Converter: svc, Config: cfg})

	return startServer(app, cfg.Server.Addr)
}

// applyFlags layers command-line overrides on top of the loaded config.
func applyFlags(cfg *config.Config, flags *serveFlags) {
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.verbose {
		cfg.Logger.Level = "debug"
	}
}

// newService assembles the conversion pipeline from the loaded config.
func newService(cfg *config.Config) *mdpress.Service {
	opts := []mdpress.Option{
		mdpress.WithOutputDir(cfg.Output.Dir),
		mdpress.WithBaseURL(cfg.Output.BaseURL),
		mdpress.WithPageSize(mdpress.PageSize(strings.ToLower(cfg.Document.PageSize))),
		mdpress.WithMargin(cfg.Document.Margin),
		mdpress.WithTimeout(cfg.RenderTimeout()),
	}
	if len(cfg.Document.BodyClasses) > 0 {
		opts = append(opts, mdpress.WithBodyClass(cfg.Document.BodyClasses...))
	}
	if cfg.Document.Stylesheet != "" {
		opts = append(opts, mdpress.WithStylesheet(cfg.Document.Stylesheet))
	}
	return mdpress.New(opts...)
}

// startServer runs the Fiber app and blocks until a shutdown signal arrives
// or the listener fails.
func startServer(app *fiber.App, addr string) error {
	listenErr := make(chan error, 1)
	go func() {
		logging.Info("server listening", "addr", addr)
		listenErr <- app.Listen(addr)
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigint)

	select {
	case err := <-listenErr:
		return fmt.Errorf("server error: %w", err)
	case <-sigint:
	}

	logging.Warn("shutdown signal received, closing server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logging.Error("server forced to shutdown", "error", err)
		return err
	}

	logging.Info("server stopped cleanly")
	return nil
}
