package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/zenquote/internal/adapters/http"
	"github.com/jsamuelsen/zenquote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/zenquote/internal/adapters/storage/watch"
	"github.com/jsamuelsen/zenquote/internal/platform/config"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the widget HTTP API",
		Args:  cobra.NoArgs,
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")

	cmd.RunE = o.withRuntime(true, func(cmd *cobra.Command, _ []string, rt *Runtime) error {
		if port != 0 {
			rt.Config.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, rt, o.build)
	})

	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, rt *Runtime, build handlers.BuildInfo) error {
	cfg := rt.Config
	logger := rt.Logger

	logger.Info("starting zenquote",
		slog.String("version", build.Version),
		slog.String("commit", build.Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
		slog.Bool("generator", rt.Generator != nil),
	)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.Telemetry.ServiceName,
		Timeout:     cfg.Server.RequestTimeout,
		Health:      handlers.NewHealthHandler(rt.Health, build, rt.Metrics),
		Quotes:      handlers.NewQuoteHandler(rt.Provider),
		Widget:      handlers.NewWidgetHandler(rt.Widget),
		Bookmarks:   handlers.NewBookmarkHandler(rt.Bookmarks),
		Preferences: handlers.NewPreferencesHandler(rt.Preferences),
		Share:       handlers.NewShareHandler(rt.Sharer),
	})

	if err := server.Start(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	rt.Widget.Start(gctx)

	if cfg.Storage.Watch && cfg.Storage.Driver == config.DriverSQLite {
		g.Go(func() error {
			err := watch.Run(gctx, watch.Config{
				Path:     cfg.Storage.Path,
				OnChange: rt.Bookmarks.Load,
				Logger:   logger,
			})
			if err != nil {
				logger.Warn("store watcher stopped; external bookmark changes need a restart",
					slog.Any("error", err),
				)
			}

			return nil
		})
	}

	g.Go(func() error {
		select {
		case err, ok := <-server.Done():
			if ok && err != nil {
				return err
			}
			return errors.New("http server stopped unexpectedly")

		case <-gctx.Done():
		}

		logger.Info("initiating graceful shutdown",
			slog.Duration("timeout", cfg.Server.ShutdownTimeout),
		)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	rt.Widget.Wait()

	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
