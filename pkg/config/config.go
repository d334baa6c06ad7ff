package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sort modes accepted by SORT_ENTRIES
const (
	SortNone    = "none"
	SortName    = "name"
	SortNatural = "natural"
)

// Config holds all configuration for the application
type Config struct {
	ImageRoot   string
	ImagePrefix string
	Port        string
	ViewsDir    string
	SortEntries string
	ScanWorkers int
	StrictScan  bool
	CacheTTL    time.Duration
	LogLevel    slog.Level
}

// ErrInvalidPrefix is returned when IMAGE_PREFIX is not an absolute URL path
var ErrInvalidPrefix = errors.New("IMAGE_PREFIX must start with /")

// ErrInvalidSortMode is returned for an unknown SORT_ENTRIES value
var ErrInvalidSortMode = errors.New("SORT_ENTRIES must be one of none, name, natural")

// Load loads configuration from environment variables
func Load() (*Config, error) {
	prefix := getenv("IMAGE_PREFIX", "/images")
	if !strings.HasPrefix(prefix, "/") {
		return nil, ErrInvalidPrefix
	}
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return nil, ErrInvalidPrefix
	}

	sortMode := strings.ToLower(getenv("SORT_ENTRIES", SortNone))
	switch sortMode {
	case SortNone, SortName, SortNatural:
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSortMode, sortMode)
	}

	workers, err := strconv.Atoi(getenv("SCAN_WORKERS", "8"))
	if err != nil || workers <= 0 {
		return nil, fmt.Errorf("SCAN_WORKERS must be a positive integer: %q", os.Getenv("SCAN_WORKERS"))
	}

	strict, err := strconv.ParseBool(getenv("STRICT_SCAN", "false"))
	if err != nil {
		return nil, fmt.Errorf("STRICT_SCAN: %w", err)
	}

	ttl, err := time.ParseDuration(getenv("CACHE_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative: %s", ttl)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return &Config{
		ImageRoot:   getenv("IMAGE_ROOT", "public/images"),
		ImagePrefix: prefix,
		Port:        getenv("PORT", "8080"),
		ViewsDir:    getenv("VIEWS_DIR", "views"),
		SortEntries: sortMode,
		ScanWorkers: workers,
		StrictScan:  strict,
		CacheTTL:    ttl,
		LogLevel:    level,
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage logs where the catalog is reachable
func (c *Config) PrintServerStartMessage() {
	slog.Info("Starting server", "port", c.Port, "root", c.ImageRoot)
	fmt.Printf("Catalog URL: http://localhost:%s/\n", c.Port)
	fmt.Printf("Images URL: http://localhost:%s%s/\n", c.Port, c.ImagePrefix)
}
