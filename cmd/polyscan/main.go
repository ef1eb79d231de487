// # cmd/polyscan/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"polyscan/internal/config"
	"polyscan/internal/shared/observability"
)

var (
	configPath  = flag.String("config", "./polyscan.toml", "Path to config file")
	format      = flag.String("format", "", "Output format: text or json (overrides config)")
	output      = flag.String("output", "", "Output file (default: stdout)")
	workers     = flag.Int("workers", 0, "Number of extraction workers (overrides config)")
	exclude     = flag.String("exclude", "", "Comma-separated additional directories to exclude")
	watchMode   = flag.Bool("watch", false, "Keep running and rescan on file changes")
	metricsAddr = flag.String("metrics", "", "Expose /metrics and /health on this address (watch mode)")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("polyscan v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) && *configPath == "./polyscan.toml" {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if *workers > 0 {
		cfg.Scan.Workers = *workers
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *output != "" {
		cfg.Output.Path = *output
	}
	for _, dir := range strings.Split(*exclude, ",") {
		if dir = strings.TrimSpace(dir); dir != "" {
			cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, dir)
		}
	}

	target := "."
	if flag.NArg() > 0 {
		target = flag.Arg(0)
	}

	app, err := NewApp(cfg, target, cfg.Output.Format, cfg.Output.Path)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx := context.Background()

	if err := app.RunOnce(ctx); err != nil {
		slog.Error("scan failed", "target", target, "error", err)
		os.Exit(1)
	}

	if !*watchMode {
		return
	}

	if *metricsAddr != "" {
		server := observability.NewServer(*metricsAddr)
		server.Start()
		defer server.Stop(ctx)
	}

	if err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	// Block forever
	select {}
}
