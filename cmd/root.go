package cmd

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"image-catalog/pkg/config"
	"image-catalog/pkg/services"
)

// Configuration flags
var (
	imageRoot   string
	imagePrefix string
	portNumber  string
	viewsDir    string
	sortEntries string
	scanWorkers int
	strictScan  bool
	cacheTTL    string
	logLevel    string

	// rootCommand records which flags were set explicitly
	rootCommand *cobra.Command
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "image-catalog",
		Short: "Image Catalog browses a directory tree of images",
		Long: `Image Catalog turns a nested directory of images into a browsable catalog:
a home page of top-level categories with image counts and previews, and a page
for every folder listing its subfolders and images. It can print listings,
export them, or serve them over HTTP.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	rootCommand = rootCmd

	// Define persistent flags that will be available for all commands
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&imageRoot, "root", "r", "", "Set the IMAGE_ROOT directory (overrides environment variable)")
	flags.StringVar(&imagePrefix, "prefix", "", "Set the IMAGE_PREFIX images are served under (overrides environment variable)")
	flags.StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	flags.StringVar(&viewsDir, "views", "", "Set the VIEWS_DIR holding pug templates (overrides environment variable)")
	flags.StringVar(&sortEntries, "sort", "", "Set SORT_ENTRIES: none, name or natural (overrides environment variable)")
	flags.IntVar(&scanWorkers, "workers", 0, "Set SCAN_WORKERS for concurrent subtree scans (overrides environment variable)")
	flags.BoolVar(&strictScan, "strict", false, "Enable STRICT_SCAN warnings for unreadable folders")
	flags.StringVar(&cacheTTL, "cache-ttl", "", "Set CACHE_TTL for serve, e.g. 30s (overrides environment variable)")
	flags.StringVar(&logLevel, "log-level", "", "Set LOG_LEVEL: debug, info, warn or error (overrides environment variable)")

	// Add commands to root
	rootCmd.AddCommand(newListCategoriesCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags given on the command line
	overrides := []struct {
		flag, key, value string
	}{
		{"root", "IMAGE_ROOT", imageRoot},
		{"prefix", "IMAGE_PREFIX", imagePrefix},
		{"port", "PORT", portNumber},
		{"views", "VIEWS_DIR", viewsDir},
		{"sort", "SORT_ENTRIES", sortEntries},
		{"workers", "SCAN_WORKERS", strconv.Itoa(scanWorkers)},
		{"strict", "STRICT_SCAN", strconv.FormatBool(strictScan)},
		{"cache-ttl", "CACHE_TTL", cacheTTL},
		{"log-level", "LOG_LEVEL", logLevel},
	}
	for _, o := range overrides {
		if rootCommand != nil && rootCommand.PersistentFlags().Changed(o.flag) {
			os.Setenv(o.key, o.value)
		}
	}

	// Load configuration from environment variables (potentially set above)
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

// loadService loads configuration and builds the catalog service from it
func loadService() (*config.Config, *services.Service, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	svc, err := services.NewService(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}
