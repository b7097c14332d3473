package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/glabrego/reviews-cli/internal/app"
	"github.com/glabrego/reviews-cli/internal/config"
	"github.com/glabrego/reviews-cli/internal/dispatch"
	"github.com/glabrego/reviews-cli/internal/fixture"
	"github.com/glabrego/reviews-cli/internal/imagecache"
	"github.com/glabrego/reviews-cli/internal/layout"
	"github.com/glabrego/reviews-cli/internal/logging"
	"github.com/glabrego/reviews-cli/internal/metrics"
	"github.com/glabrego/reviews-cli/internal/reviewapi"
	"github.com/glabrego/reviews-cli/internal/reviews"
	"github.com/glabrego/reviews-cli/internal/richtext"
	"github.com/glabrego/reviews-cli/internal/storage"
	"github.com/glabrego/reviews-cli/internal/tui"
	tuitheme "github.com/glabrego/reviews-cli/internal/tui/theme"
	"github.com/glabrego/reviews-cli/internal/tui/view"
)

func runList(ctx context.Context, cfg config.Config) error {
	logger := log.Logger
	reg := metrics.InitRegistry()
	stopMetrics := metrics.Serve(cfg.MetricsAddr, reg, logging.Component(logger, "metrics"))
	defer stopMetrics()

	sourceURL := cfg.SourceURL
	if sourceURL == "" {
		addr, stop, err := startFixture(cfg, logging.Component(logger, "fixture"))
		if err != nil {
			return err
		}
		defer stop()
		sourceURL = "http://" + addr
	}

	client, err := reviewapi.NewClient(sourceURL, &http.Client{Timeout: 15 * time.Second})
	if err != nil {
		return fmt.Errorf("review client: %w", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}
	defer repo.Close()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := repo.Init(initCtx); err != nil {
		return fmt.Errorf("storage schema: %w", err)
	}

	service := app.NewService(client, repo, logging.Component(logger, "app"))
	queue := dispatch.NewQueue()

	images, err := imagecache.New(imagecache.Options{
		Dir:           cfg.CacheDir,
		MemoryEntries: cfg.MemoryCacheEntries,
		Fetcher:       imagecache.NewHTTPFetcher(&http.Client{Timeout: 15 * time.Second}, cfg.ImageRPS),
		Dispatcher:    queue,
		Coalesce:      cfg.CoalesceImages,
		Logger:        logging.Component(logger, "imagecache"),
	})
	if err != nil {
		return fmt.Errorf("image cache: %w", err)
	}

	th := tuitheme.Default()
	measurer := richtext.Terminal{}
	engine := layout.NewEngine(measurer, layout.TerminalMetrics(measurer, richtext.New(view.ShowMoreLabel, th.ShowMore)))
	ctrl := reviews.New(service, queue, engine, measurer, reviews.Options{
		PageSize:  cfg.PageSize,
		LookAhead: cfg.LookAhead,
		Styles:    th.RowStyles(),
		Logger:    logging.Component(logger, "reviews"),
	})

	model := tui.NewModel(ctrl, queue, tui.Options{
		Images:  images,
		Theme:   th,
		Offline: service.Offline,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// startFixture serves the bundled backend in-process. It prefers the
// configured serve address so image identities stay stable between runs,
// and falls back to an ephemeral loopback port.
func startFixture(cfg config.Config, logger zerolog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", cfg.ServeAddr)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.ServeAddr).Msg("serve address busy, using an ephemeral port")
		ln, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return "", nil, fmt.Errorf("listen for fixture backend: %w", err)
		}
	}

	src, err := fixture.NewSource(fixture.SourceOptions{
		MinLatency: cfg.FixtureMinLatency,
		MaxLatency: cfg.FixtureMaxLatency,
	})
	if err != nil {
		_ = ln.Close()
		return "", nil, fmt.Errorf("fixture source: %w", err)
	}

	srv := &http.Server{
		Handler:           fixture.NewServer(src, nil, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("fixture backend stopped")
		}
	}()
	logger.Info().Str("addr", ln.Addr().String()).Msg("fixture backend listening")
	return ln.Addr().String(), func() { _ = srv.Close() }, nil
}
