package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/glabrego/reviews-cli/internal/config"
	"github.com/glabrego/reviews-cli/internal/fixture"
	"github.com/glabrego/reviews-cli/internal/logging"
	"github.com/glabrego/reviews-cli/internal/metrics"
)

func newServeCmd(cfg *config.Config) *cli.Command {
	var addr string
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run the bundled review backend",
		UsageText: "reviews serve [--addr host:port]",
		Description: `Serves GET /reviews?offset=&limit=, the placeholder images under /images/
and Prometheus metrics under /metrics. Point another client at it with
--source-url http://<addr>.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to the configured serve address)",
				Destination: &addr,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if addr == "" {
				addr = cfg.ServeAddr
			}
			return runServe(ctx, *cfg, addr)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config, addr string) error {
	logger := logging.Component(log.Logger, "fixture")
	src, err := fixture.NewSource(fixture.SourceOptions{
		MinLatency: cfg.FixtureMinLatency,
		MaxLatency: cfg.FixtureMaxLatency,
	})
	if err != nil {
		return fmt.Errorf("fixture source: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           fixture.NewServer(src, metrics.InitRegistry(), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Int("reviews", src.Len()).Msg("review backend listening")
		errCh <- srv.ListenAndServe()
	}()

	fmt.Printf("review backend listening on http://%s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
