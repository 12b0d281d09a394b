package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mkvammen/fieldplan/internal/config"
	"github.com/mkvammen/fieldplan/internal/faults"
	"github.com/mkvammen/fieldplan/internal/planner"
	"github.com/mkvammen/fieldplan/internal/sqlite"
)

func main() {
	configPath := flag.String("config", "", "planning configuration YAML (required)")
	outDir := flag.String("out", "", "directory for deck and report artifacts, overrides config paths")
	archivePath := flag.String("archive", "", "SQLite archive path, overrides config")
	logLevel := flag.String("log-level", "", "debug, info, warn or error, overrides config")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fieldplan -config <file> [-out <dir>] [-archive <path>] [-log-level <level>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.Output.DeckPath = filepath.Join(*outDir, filepath.Base(cfg.Output.DeckPath))
		cfg.Output.ReportDir = filepath.Join(*outDir, filepath.Base(cfg.Output.ReportDir))
	}
	if *archivePath != "" {
		cfg.Output.ArchivePath = *archivePath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// Logs go to stderr; stdout carries the report tables.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	p := &pipeline{
		planner: planner.NewPlanner(logger),
		stdout:  os.Stdout,
		logger:  logger,
	}

	if cfg.Output.ArchivePath != "" {
		if err := ensureArchiveDir(cfg.Output.ArchivePath); err != nil {
			logger.Error("failed to prepare archive path", "error", err)
			os.Exit(1)
		}
		db, err := sqlite.New(cfg.Output.ArchivePath)
		if err != nil {
			logger.Error("failed to open archive", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.RunMigrations(); err != nil {
			logger.Error("failed to migrate archive", "error", err)
			os.Exit(1)
		}
		p.archive = sqlite.NewPlanArchive(db)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	plan, err := p.run(ctx, cfg)
	if err != nil {
		if kind := faults.Kind(err); kind != "" {
			logger.Error("planning failed", "kind", kind, "error", err)
		} else {
			logger.Error("planning failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("planning complete",
		"run_id", plan.RunID,
		"deck", cfg.Output.DeckPath,
		"reports", cfg.Output.ReportDir)
}

func ensureArchiveDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
