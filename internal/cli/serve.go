package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/server"
)

type serveOptions struct {
	host string
	port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling API over HTTP",
		Long: `Start the JSON API and block until interrupted.

Routes:
  GET  /health
  GET  /api/v1/policies
  POST /api/v1/schedule
  POST /api/v1/compare`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "bind host (default from config)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "bind port (default from config, 8766)")
	return cmd
}

func runServe(rootOpts *RootOptions, opts *serveOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return formatter.fail(ErrCodeConfig, err)
	}
	settings := server.SettingsFromConfig(cfg)
	if cmd.Flags().Changed("host") {
		settings.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		settings.Port = opts.port
	}
	logger := rootOpts.logger(cfg, cmd.ErrOrStderr())
	srv := server.New(settings, server.WithLogger(logger))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		if errors.Is(err, server.ErrDisabled) {
			_ = formatter.Error(ErrCodeServer, "server disabled in config", nil)
			return WrapExitError(ExitCommandError, ErrCodeServer, err)
		}
		return formatter.fail(ErrCodeServer, err)
	}
	if formatter.IsJSON() {
		_ = formatter.Success(map[string]string{"url": srv.BaseURL()})
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "diskseek API listening on %s\n", srv.BaseURL())
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return formatter.fail(ErrCodeServer, err)
	}
	logger.Info("server stopped")
	return nil
}
