package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/glabrego/reviews-cli/internal/config"
	"github.com/glabrego/reviews-cli/internal/imagecache"
)

func newCacheCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the on-disk image cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show the number and size of cached images",
				Action: func(ctx context.Context, c *cli.Command) error {
					stats, err := imagecache.Stats(cfg.CacheDir)
					if err != nil {
						return fmt.Errorf("cache stats: %w", err)
					}
					fmt.Printf("%s\n%d images, %s\n", cfg.CacheDir, stats.Files, humanize.Bytes(uint64(stats.Bytes)))
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Delete every cached image",
				Action: func(ctx context.Context, c *cli.Command) error {
					n, err := imagecache.Clear(cfg.CacheDir)
					if err != nil {
						return fmt.Errorf("cache clear: %w", err)
					}
					log.Info().Int("removed", n).Str("dir", cfg.CacheDir).Msg("image cache cleared")
					fmt.Printf("removed %d cached images\n", n)
					return nil
				},
			},
		},
	}
}
