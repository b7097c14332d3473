package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the reviews client and fixture server.
type Config struct {
	SourceURL          string        `yaml:"source_url"`
	DBPath             string        `yaml:"db_path"`
	CacheDir           string        `yaml:"cache_dir"`
	PageSize           int           `yaml:"page_size"`
	LookAhead          float64       `yaml:"look_ahead"`
	MemoryCacheEntries int           `yaml:"memory_cache_entries"`
	ImageRPS           float64       `yaml:"image_rps"`
	CoalesceImages     bool          `yaml:"coalesce_images"`
	FixtureMinLatency  time.Duration `yaml:"fixture_min_latency"`
	FixtureMaxLatency  time.Duration `yaml:"fixture_max_latency"`
	LogLevel           string        `yaml:"log_level"`
	LogFile            string        `yaml:"log_file"`
	MetricsAddr        string        `yaml:"metrics_addr"`
	ServeAddr          string        `yaml:"serve_addr"`
}

// BaseDir is the per-user directory holding the snapshot database, the
// image cache and the log file.
func BaseDir() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "reviews")
}

func DefaultConfig() Config {
	base := BaseDir()
	return Config{
		DBPath:             filepath.Join(base, "reviews.db"),
		CacheDir:           filepath.Join(base, "images"),
		PageSize:           20,
		LookAhead:          2.5,
		MemoryCacheEntries: 128,
		ImageRPS:           8,
		CoalesceImages:     true,
		FixtureMinLatency:  100 * time.Millisecond,
		FixtureMaxLatency:  time.Second,
		LogLevel:           "info",
		LogFile:            filepath.Join(base, "reviews.log"),
		ServeAddr:          "127.0.0.1:8080",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path and REVIEWS_* environment variables, in that order, and validates it.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation, for callers that layer further overrides
// on top and validate the result themselves.
func Read(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromEnv is Load without a config file.
func LoadFromEnv() (Config, error) {
	return Load("")
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"REVIEWS_SOURCE_URL":   &c.SourceURL,
		"REVIEWS_DB_PATH":      &c.DBPath,
		"REVIEWS_CACHE_DIR":    &c.CacheDir,
		"REVIEWS_LOG_LEVEL":    &c.LogLevel,
		"REVIEWS_LOG_FILE":     &c.LogFile,
		"REVIEWS_METRICS_ADDR": &c.MetricsAddr,
		"REVIEWS_SERVE_ADDR":   &c.ServeAddr,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	if v := os.Getenv("REVIEWS_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REVIEWS_PAGE_SIZE: %w", err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("REVIEWS_MEMORY_CACHE_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REVIEWS_MEMORY_CACHE_ENTRIES: %w", err)
		}
		c.MemoryCacheEntries = n
	}
	if v := os.Getenv("REVIEWS_LOOK_AHEAD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("REVIEWS_LOOK_AHEAD: %w", err)
		}
		c.LookAhead = f
	}
	if v := os.Getenv("REVIEWS_IMAGE_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("REVIEWS_IMAGE_RPS: %w", err)
		}
		c.ImageRPS = f
	}
	if v := os.Getenv("REVIEWS_COALESCE_IMAGES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REVIEWS_COALESCE_IMAGES: %w", err)
		}
		c.CoalesceImages = b
	}
	if v := os.Getenv("REVIEWS_FIXTURE_MIN_LATENCY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REVIEWS_FIXTURE_MIN_LATENCY: %w", err)
		}
		c.FixtureMinLatency = d
	}
	if v := os.Getenv("REVIEWS_FIXTURE_MAX_LATENCY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REVIEWS_FIXTURE_MAX_LATENCY: %w", err)
		}
		c.FixtureMaxLatency = d
	}
	return nil
}

// applyDefaults fills the fields a config file may have blanked.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = defaults.DBPath
	}
	if c.CacheDir == "" {
		c.CacheDir = defaults.CacheDir
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.FixtureMaxLatency < c.FixtureMinLatency {
		c.FixtureMaxLatency = c.FixtureMinLatency
	}
}

func (c Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("source_url", c.SourceURL, sourceURL),
		criterio.Run("page_size", c.PageSize, positiveInt),
		criterio.Run("look_ahead", c.LookAhead, positiveFloat),
		criterio.Run("memory_cache_entries", c.MemoryCacheEntries, positiveInt),
		criterio.Run("image_rps", c.ImageRPS, nonNegativeFloat),
		criterio.Run("fixture_min_latency", c.FixtureMinLatency, nonNegativeDuration),
		criterio.Run("cache_dir", c.CacheDir, required),
		criterio.Run("db_path", c.DBPath, required),
	)
}

func sourceURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http(s) url: %s", raw)
	}
	if strings.HasSuffix(raw, "/") {
		return fmt.Errorf("must not end with '/': %s", raw)
	}
	return nil
}

func positiveInt(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive, got %d", n)
	}
	return nil
}

func positiveFloat(f float64) error {
	if f <= 0 {
		return fmt.Errorf("must be positive, got %g", f)
	}
	return nil
}

func nonNegativeFloat(f float64) error {
	if f < 0 {
		return fmt.Errorf("must not be negative, got %g", f)
	}
	return nil
}

func nonNegativeDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("must not be negative, got %s", d)
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}
