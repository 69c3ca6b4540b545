// Command processor runs the statistics pipeline once in batch mode and
// persists the absolute and normalized combined tables as CSV files. Unlike
// the serving layer, a missing source table is fatal here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"epipulse/internal/config"
	"epipulse/internal/exporter"
	"epipulse/internal/infrastructure"
	"epipulse/internal/pipeline"
)

func main() {
	dataDir := flag.String("data", "", "directory containing the raw source tables (overrides config)")
	outDir := flag.String("out", "", "directory for the processed output tables (overrides config)")
	flag.Parse()

	if err := run(*dataDir, *outDir); err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir, outDir string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
	if outDir != "" {
		cfg.Paths.ProcessedDir = outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	paths := cfg.GetPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ctx := context.Background()
	result, err := pipeline.Run(ctx, logger, pipeline.SourcesInDir(paths.DataDir))
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteResult(result); err != nil {
		return err
	}

	logger.InfoContext(ctx, "processed tables written",
		slog.String("dir", paths.ProcessedDir),
		slog.Int("rows", len(result.Absolute)))

	return nil
}
