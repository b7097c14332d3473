package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glabrego/reviews-cli/internal/config"
)

func TestResolveConfig_FlagsOverrideInvalidEnv(t *testing.T) {
	t.Setenv("REVIEWS_PAGE_SIZE", "0")

	_, err := resolveConfig("", nil)
	require.ErrorContains(t, err, "invalid config")

	cfg, err := resolveConfig("", func(c *config.Config) { c.PageSize = 10 })
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
}

func TestResolveConfig_FlagsAreValidated(t *testing.T) {
	t.Setenv("REVIEWS_PAGE_SIZE", "")
	require.NoError(t, os.Unsetenv("REVIEWS_PAGE_SIZE"))

	_, err := resolveConfig("", func(c *config.Config) { c.SourceURL = "ftp://reviews.example.com" })
	assert.ErrorContains(t, err, "invalid config")
}
