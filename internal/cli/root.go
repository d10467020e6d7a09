// Package cli implements the zenquote command line: the HTTP server and
// one-shot commands that run the same application core against the local store.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/zenquote/internal/adapters/http/handlers"
	"github.com/jsamuelsen/zenquote/internal/domain"
	"github.com/jsamuelsen/zenquote/internal/platform/config"
	"github.com/jsamuelsen/zenquote/internal/platform/logging"
)

// quietLevel is the log level for one-shot commands unless --log-level is set.
const quietLevel = "warn"

type rootOptions struct {
	build handlers.BuildInfo
	deps  Deps

	profile   string
	configDir string
	logLevel  string
	plain     bool
}

// Option customises the root command.
type Option func(*rootOptions)

// WithDeps replaces the desktop adapters.
func WithDeps(deps Deps) Option {
	return func(o *rootOptions) {
		o.deps = deps
	}
}

// NewRootCommand builds the zenquote command tree.
func NewRootCommand(build handlers.BuildInfo, opts ...Option) *cobra.Command {
	o := &rootOptions{build: build}
	for _, opt := range opts {
		opt(o)
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cmd := &cobra.Command{
		Use:   "zenquote",
		Short: "Inspirational quotes by category",
		Long: `zenquote serves inspirational quotes from a generative model, falling back
to a built-in list when the model is unavailable. Quotes can be bookmarked,
copied to the clipboard and shared.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.profile, "profile", profile, "configuration profile (configs/{profile}.yaml)")
	flags.StringVar(&o.configDir, "config-dir", "configs", "directory holding base.yaml and profile files")
	flags.StringVar(&o.logLevel, "log-level", "", "override the configured log level (trace, debug, info, warn, error)")
	flags.BoolVar(&o.plain, "plain", false, "disable colours and boxes")

	cmd.AddCommand(
		newServeCommand(o),
		newQuoteCommand(o),
		newBookmarksCommand(o),
		newCopyCommand(o),
		newShareCommand(o),
		newThemeCommand(o),
		newCategoriesCommand(o),
		newVersionCommand(o),
	)

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, build handlers.BuildInfo) int {
	cmd := NewRootCommand(build)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return 1
	}

	return 0
}

// loadConfig loads and validates configuration. The server logs at the
// configured level; other commands stay quiet unless --log-level is given.
func (o *rootOptions) loadConfig(server bool) (*config.Config, error) {
	cfg, err := config.LoadFrom(o.configDir, o.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	switch {
	case o.logLevel != "":
		cfg.Log.Level = o.logLevel
	case !server:
		cfg.Log.Level = quietLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (o *rootOptions) newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: o.build.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, cmd.ErrOrStderr())
}

type runFunc func(cmd *cobra.Command, args []string, rt *Runtime) error

// withRuntime wires a Runtime for the duration of one command.
func (o *rootOptions) withRuntime(server bool, run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := o.loadConfig(server)
		if err != nil {
			return err
		}

		logger := o.newLogger(cmd, cfg)
		if server {
			slog.SetDefault(logger)
		}

		deps := o.deps
		if deps.BrowserOutput == nil {
			deps.BrowserOutput = cmd.ErrOrStderr()
		}

		rt, err := NewRuntime(cmd.Context(), cfg, logger, deps)
		if err != nil {
			return err
		}

		defer func() {
			if closeErr := rt.Close(context.WithoutCancel(cmd.Context())); closeErr != nil {
				logger.Error("closing runtime", slog.Any("error", closeErr))
			}
		}()

		return run(cmd, args, rt)
	}
}

// printer returns an output printer themed by the stored preference.
func (o *rootOptions) printer(cmd *cobra.Command, rt *Runtime) *printer {
	return newPrinter(cmd.OutOrStdout(), rt.Preferences.Theme(cmd.Context()), o.plain)
}

// plainPrinter is printer for commands that have no runtime.
func (o *rootOptions) plainPrinter(cmd *cobra.Command) *printer {
	return newPrinter(cmd.OutOrStdout(), domain.DefaultTheme, o.plain)
}

// warn reports a best-effort failure, such as a bookmark that could not be
// persisted, without failing the command.
func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
