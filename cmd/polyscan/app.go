// # cmd/polyscan/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"polyscan/internal/config"
	"polyscan/internal/extract"
	"polyscan/internal/history"
	"polyscan/internal/report"
	"polyscan/internal/scan"
	"polyscan/internal/watch"
)

// App ties the scanner, the optional history store and the optional watcher
// together for one CLI invocation.
type App struct {
	cfg     *config.Config
	target  string
	format  string
	outPath string

	scanner *scan.Scanner
	store   *history.Store
	watcher *watch.Watcher
}

func NewApp(cfg *config.Config, target, format, outPath string) (*App, error) {
	scanner, err := scan.NewScanner(cfg.Scan.Workers, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("initialize scanner: %w", err)
	}

	app := &App{
		cfg:     cfg,
		target:  target,
		format:  format,
		outPath: outPath,
		scanner: scanner,
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		app.store = store
	}

	return app, nil
}

func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// RunOnce scans the target, renders the result and records a history
// snapshot. Rendering goes to stdout unless an output path was given.
func (a *App) RunOnce(ctx context.Context) error {
	result, err := a.scanner.Scan(ctx, a.target)
	if err != nil {
		return err
	}

	out, err := report.Render(result, a.format)
	if err != nil {
		return err
	}

	if a.outPath != "" {
		if err := os.WriteFile(a.outPath, []byte(out+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		fmt.Printf("Results written to %s\n", a.outPath)
	} else {
		fmt.Println(out)
	}

	if a.store != nil {
		if err := a.store.SaveSnapshot(history.NewSnapshot(a.target, result)); err != nil {
			slog.Warn("failed to save history snapshot", "error", err)
		}
	}

	return nil
}

// StartWatcher rescans the whole target whenever watched files settle.
func (a *App) StartWatcher(ctx context.Context) error {
	extensions := extract.NewRegistry().Extensions()

	w, err := watch.NewWatcher(
		a.cfg.Watch.Debounce,
		a.cfg.Watch.RescanRate,
		a.cfg.Exclude.Dirs,
		a.cfg.Exclude.Files,
		extensions,
		func(paths []string) {
			slog.Info("change detected, rescanning", "changed", len(paths))
			if err := a.RunOnce(ctx); err != nil {
				slog.Error("rescan failed", "error", err)
			}
		})
	if err != nil {
		return err
	}

	a.watcher = w
	return w.Watch(a.target)
}
