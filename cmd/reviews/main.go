package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/glabrego/reviews-cli/internal/config"
	"github.com/glabrego/reviews-cli/internal/logging"
)

var version = "dev"

// flags holds the global options that override the config file.
type flags struct {
	ConfigPath  string
	SourceURL   string
	LogLevel    string
	LogFile     string
	MetricsAddr string
	PageSize    int
}

func main() {
	var (
		f         flags
		cfg       config.Config
		logCloser func()
	)

	app := &cli.Command{
		Name:      "reviews",
		Usage:     "Browse an infinitely scrolling list of reviews",
		UsageText: "reviews [global options] [command]",
		Description: `Run 'reviews' with no arguments to open the review list.

Without a source URL the bundled fixture backend is started on the serve
address and the list pages through it.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("REVIEWS_CONFIG"),
				Value:       filepath.Join(config.BaseDir(), "config.yaml"),
				Destination: &f.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "source-url",
				Usage:       "base URL of the review backend (empty uses the bundled fixture)",
				Destination: &f.SourceURL,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Destination: &f.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Destination: &f.LogFile,
			},
			&cli.StringFlag{
				Name:        "metrics-addr",
				Usage:       "address to expose Prometheus metrics on (empty disables)",
				Destination: &f.MetricsAddr,
			},
			&cli.IntFlag{
				Name:        "page-size",
				Usage:       "reviews requested per page",
				Destination: &f.PageSize,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := resolveConfig(f.ConfigPath, func(cfg *config.Config) { applyFlags(c, f, cfg) })
			if err != nil {
				return ctx, err
			}
			cfg = loaded

			logger, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() > 0 {
				return fmt.Errorf("unknown command %q. Run 'reviews --help' for usage", c.Args().First())
			}
			return runList(ctx, cfg)
		},
		Commands: []*cli.Command{
			newServeCmd(&cfg),
			newCacheCmd(&cfg),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// resolveConfig reads the file and env layers, lets override apply the
// command line on top and validates only the final result.
func resolveConfig(path string, override func(*config.Config)) (config.Config, error) {
	cfg, err := config.Read(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyFlags(c *cli.Command, f flags, cfg *config.Config) {
	if c.IsSet("source-url") {
		cfg.SourceURL = f.SourceURL
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if c.IsSet("log-file") {
		cfg.LogFile = f.LogFile
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = f.MetricsAddr
	}
	if c.IsSet("page-size") {
		cfg.PageSize = f.PageSize
	}
}
