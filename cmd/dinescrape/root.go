package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/use-agent/dinescrape/browser"
	"github.com/use-agent/dinescrape/config"
	"github.com/use-agent/dinescrape/emit"
	"github.com/use-agent/dinescrape/extract"
	"github.com/use-agent/dinescrape/loader"
	"github.com/use-agent/dinescrape/pipeline"
	"github.com/use-agent/dinescrape/sink"
)

var rootCmd = &cobra.Command{
	Use:           "dinescrape",
	Short:         "Scrape restaurant listings and reviews into CSV",
	Long:          "dinescrape scrolls an infinitely-loading restaurant listing page until it stops growing, extracts one row per restaurant, then pages through each restaurant's reviews.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

var (
	cfg    *config.Config
	logger *slog.Logger

	flagEngine   string
	flagLogLevel string
	flagHeadful  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEngine, "engine", "", `Browser engine: "rod" or "http" (overrides DINESCRAPE_ENGINE)`)
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides DINESCRAPE_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flagHeadful, "headful", false, "Show the browser window")
}

// setup loads configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command) error {
	cfg = config.Load()
	if flagEngine != "" {
		cfg.Browser.Engine = flagEngine
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagHeadful {
		cfg.Browser.Headless = false
	}

	initLogger(cfg.Log)
	logger = slog.Default().With("run_id", uuid.NewString(), "command", cmd.Name())

	return extract.ValidateTargets(cfg.Review)
}

// newPipeline wires the loader, emitter and CSV sink from cfg.
func newPipeline(cmd *cobra.Command) *pipeline.Pipeline {
	l := loader.New(cfg.Loader, loader.RealClock, logger)
	e := emit.New(sink.CSV{}, cmd.OutOrStdout(), logger)
	return pipeline.New(cfg, l, e, logger)
}

func openSession() (browser.Surface, error) {
	logger.Info("opening browser session", "engine", cfg.Browser.Engine, "headless", cfg.Browser.Headless)
	return browser.Open(cfg.Browser)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
