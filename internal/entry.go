// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/tagfield/internal/api"
	"github.com/starford/tagfield/internal/mcpserver"
	"github.com/starford/tagfield/internal/palette"
	"github.com/starford/tagfield/internal/seed"
	"github.com/starford/tagfield/internal/sse"
	"github.com/starford/tagfield/internal/tagfield"
	"github.com/starford/tagfield/internal/ui"
)

// core is the state shared by every entry point.
type core struct {
	cfg     *Config
	logger  *slog.Logger
	catalog *palette.Catalog
	reg     *tagfield.Registry
	loader  *seed.Loader // nil without a seed dir
}

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup builds the catalog and registry and applies the seed directory.
// Log output goes to logOut so the MCP transport can keep stdout clean.
func setup(cfg *Config, logOut io.Writer, sink tagfield.Sink) (*core, error) {
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	catalog, err := cfg.Palette.Catalog()
	if err != nil {
		return nil, fmt.Errorf("init palette: %w", err)
	}

	opts := []tagfield.Option{
		tagfield.WithCatalog(catalog),
		tagfield.WithLogger(logger),
	}
	if sink != nil {
		opts = append(opts, tagfield.WithSink(sink))
	}
	c := &core{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		reg:     tagfield.NewRegistry(opts...),
	}

	if cfg.Seed.Dir != "" {
		if err := os.MkdirAll(cfg.Seed.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create seed dir: %w", err)
		}
		dir, err := seed.NewDir(cfg.Seed.Dir)
		if err != nil {
			return nil, fmt.Errorf("init seed dir: %w", err)
		}
		c.loader = seed.NewLoader(dir, c.reg, logger)
		if err := c.loader.Sync(); err != nil {
			logger.Warn("initial seed sync failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("seed_dir", cfg.Seed.Dir),
		slog.Bool("seed_watch", cfg.Seed.Watch),
		slog.String("default_pick", cfg.Palette.DefaultPick),
		slog.Bool("strict_palette", cfg.Palette.Strict),
		slog.Int("fields", c.reg.Len()),
		slog.String("log_level", cfg.App.LogLevel.String()))
	return c, nil
}

// watch runs the seed watcher if one is configured, until ctx is done.
func (c *core) watch(ctx context.Context, cb seed.ReloadCallback) error {
	if c.loader == nil || !c.cfg.Seed.Watch {
		<-ctx.Done()
		return nil
	}
	return seed.Watch(ctx, c.loader, c.logger, cb)
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// SSE broker receives every field event.
	broker := sse.NewBroker(sse.WithThrottle(2 * time.Second))
	defer broker.Close()

	c, err := setup(cfg, os.Stdout, broker)
	if err != nil {
		return err
	}
	logger := c.logger

	apiRouter := api.NewRouter(c.reg, c.catalog, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","fields":%d}`, c.reg.Len())
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Seed watcher; reloads reach SSE clients through the field sink.
	g.Go(func() error {
		return c.watch(gCtx, func(entity string) {
			logger.Info("seed reloaded", slog.String("entity", entity))
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdio. Logs go to stderr.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	c, err := setup(app.config, os.Stderr, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.watch(gCtx, nil)
	})
	g.Go(func() error {
		defer cancel()
		c.logger.Info("MCP server starting on stdio")
		return mcpserver.New(c.reg, c.catalog).ServeStdio()
	})
	return g.Wait()
}

// Show prints every seeded field's pills, or every tag of the named entities.
func Show(_ context.Context, entities []string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	c, err := setup(app.config, io.Discard, nil)
	if err != nil {
		return err
	}

	if len(entities) == 0 {
		for _, e := range c.reg.Entities() {
			f, _ := c.reg.Get(e)
			_, _ = fmt.Fprint(app.out, ui.FormatField(f.Summary()))
		}
		return nil
	}
	for _, e := range entities {
		f, err := c.reg.Get(e)
		if err != nil {
			return err
		}
		sum := f.Summary()
		_, _ = fmt.Fprint(app.out, ui.FormatField(sum), ui.FormatTagTable(sum))
	}
	return nil
}
