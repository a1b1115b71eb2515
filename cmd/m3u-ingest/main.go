package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alorle/m3u-ingest/cache"
	"github.com/alorle/m3u-ingest/config"
	"github.com/alorle/m3u-ingest/logging"
	"github.com/alorle/m3u-ingest/transport"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	flagConfig   string
	flagJSON     bool
	flagProgress bool
	flagNoCache  bool
)

// cfg holds the loaded configuration (defaults < config file < environment)
var cfg *config.IngestConfig

var rootCmd = &cobra.Command{
	Use:   "m3u-ingest",
	Short: "Fetch and classify M3U playlists",
	Long: `m3u-ingest downloads an M3U/M3U-Plus playlist, splits it into live
channels and on-demand titles, and reports per-line parse problems without
discarding the valid entries.`,
	PersistentPreRunE: loadConfig,
}

func main() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output results as JSON")
	ingestCmd.Flags().BoolVarP(&flagProgress, "progress", "p", false, "Report download progress on stderr")
	ingestCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable the stale playlist cache fallback")
}

// loadConfig merges configuration: defaults < config file < environment
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFromFile(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err = cfg.ApplyEnv(); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg, err = config.LoadFromEnv()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	return nil
}

func slogLevel(level string) slog.Level {
	switch level {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, aborting
// in-flight fetches and pending retries
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// newTransport wires the configured cache, logger and per-source circuit
// breaker into a transport
func newTransport(source string) (*transport.Transport, *logging.Logger, error) {
	ingestLogger := logging.New(logging.ParseLogLevel(cfg.LogLevel), "[m3u-ingest]")

	var storage cache.Storage
	if cfg.CacheDir != "" && !flagNoCache {
		fileStorage, err := cache.NewFileStorage(cfg.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing playlist cache: %w", err)
		}
		storage = fileStorage
	}

	return transport.NewWithBreaker(cfg, storage, ingestLogger, source), ingestLogger, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the m3u-ingest version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}
