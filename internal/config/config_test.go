package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REVIEWS_SOURCE_URL", "REVIEWS_DB_PATH", "REVIEWS_CACHE_DIR", "REVIEWS_LOG_LEVEL",
		"REVIEWS_LOG_FILE", "REVIEWS_METRICS_ADDR", "REVIEWS_SERVE_ADDR", "REVIEWS_PAGE_SIZE",
		"REVIEWS_MEMORY_CACHE_ENTRIES", "REVIEWS_LOOK_AHEAD", "REVIEWS_IMAGE_RPS",
		"REVIEWS_COALESCE_IMAGES", "REVIEWS_FIXTURE_MIN_LATENCY", "REVIEWS_FIXTURE_MAX_LATENCY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadFromEnv_UsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.SourceURL)
	assert.Equal(t, 20, cfg.PageSize)
	assert.InDelta(t, 2.5, cfg.LookAhead, 1e-9)
	assert.Equal(t, 128, cfg.MemoryCacheEntries)
	assert.Equal(t, filepath.Join(BaseDir(), "images"), cfg.CacheDir)
	assert.True(t, cfg.CoalesceImages)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "reviews.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source_url: http://127.0.0.1:8080
page_size: 10
look_ahead: 3
cache_dir: ""
fixture_min_latency: 0s
fixture_max_latency: 250ms
`), 0o644))
	t.Setenv("REVIEWS_PAGE_SIZE", "15")
	t.Setenv("REVIEWS_COALESCE_IMAGES", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", cfg.SourceURL)
	assert.Equal(t, 15, cfg.PageSize, "env overrides file")
	assert.InDelta(t, 3.0, cfg.LookAhead, 1e-9)
	assert.Equal(t, DefaultConfig().CacheDir, cfg.CacheDir, "blank file value falls back to default")
	assert.Equal(t, 250*time.Millisecond, cfg.FixtureMaxLatency)
	assert.False(t, cfg.CoalesceImages)
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
}

func TestLoad_BadInputs(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: [oops"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config file")

	t.Setenv("REVIEWS_PAGE_SIZE", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "REVIEWS_PAGE_SIZE")
}

func TestRead_LeavesValidationToCaller(t *testing.T) {
	clearEnv(t)
	t.Setenv("REVIEWS_PAGE_SIZE", "0")

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.PageSize)

	_, err = Load("")
	assert.ErrorContains(t, err, "invalid config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "trailing slash", mutate: func(c *Config) { c.SourceURL = "https://reviews.example.com/" }, field: "source_url"},
		{name: "not http", mutate: func(c *Config) { c.SourceURL = "ftp://reviews.example.com" }, field: "source_url"},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }, field: "page_size"},
		{name: "negative look ahead", mutate: func(c *Config) { c.LookAhead = -1 }, field: "look_ahead"},
		{name: "no memory entries", mutate: func(c *Config) { c.MemoryCacheEntries = 0 }, field: "memory_cache_entries"},
		{name: "negative rps", mutate: func(c *Config) { c.ImageRPS = -2 }, field: "image_rps"},
		{name: "no cache dir", mutate: func(c *Config) { c.CacheDir = " " }, field: "cache_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
