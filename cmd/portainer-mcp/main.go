package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tansive/portainer-mcp/internal/common/logtrace"
	"github.com/tansive/portainer-mcp/internal/mcpserver"
	"github.com/tansive/portainer-mcp/pkg/portainer"
)

type cmdoptions struct {
	configFile string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	opt := parseFlags()

	cfg, err := mcpserver.LoadConfig(opt.configFile)
	if err != nil {
		logtrace.InitLogger(mcpserver.DefaultLogLevel)
		return fmt.Errorf("loading config file: %w", err)
	}
	logtrace.InitLogger(cfg.LogLevel)
	slog := log.With().Str("state", "init").Logger()
	ctx = slog.WithContext(ctx)

	slog.Info().
		Str("config_file", opt.configFile).
		Str("portainer_url", cfg.Portainer.URL).
		Str("transport", cfg.Transport).
		Msg("starting portainer-mcp")

	client, err := portainer.NewClient(ctx, cfg.Portainer)
	if err != nil {
		return fmt.Errorf("connecting to portainer: %w", err)
	}
	slog.Info().Str("portainer_url", client.URL()).Msg("authenticated with portainer")

	s, err := mcpserver.CreateNewServer(cfg, client)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if cfg.Transport == mcpserver.TransportStdio {
		err := s.ServeStdio(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server error: %w", err)
		}
		slog.Info().Msg("server stopped")
		return nil
	}

	s.MountHandlers()
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	// Start the service listening for requests.
	go func() {
		slog.Info().Str("addr", srv.Addr).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		slog.Info().Msg("shutdown signal received")

		// Give outstanding requests 5 seconds to complete and initiate the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			if err := srv.Close(); err != nil {
				slog.Error().Err(err).Msg("could not stop server")
			}
		}
	}

	slog.Info().Msg("server stopped")
	return nil
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	flag.StringVar(&opt.configFile, "config", "", "Path to the config file; settings come from the environment when omitted")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
