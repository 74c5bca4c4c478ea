package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"contentpipeline/internal/app"
	"contentpipeline/internal/config"
	"contentpipeline/internal/services/storage"
)

func main() {
	force := flag.Bool("force", false, "Re-encode every image, ignoring up-to-date outputs")
	envFile := flag.String("env", "", "Environment file to load (default .env)")
	root := flag.String("root", "", "Content root (overrides CONTENT_ROOT)")
	out := flag.String("out", "", "Output directory for renditions (overrides OUTPUT_DIR)")
	data := flag.String("data", "", "Directory for projects.json (overrides DATA_DIR)")
	workers := flag.Int("workers", 0, "Parallel encodes per project (overrides PROCESSING_WORKERS)")
	catalog := flag.String("catalog", "", "SQLite catalog path (overrides CATALOG_DB)")
	summaryPath := flag.String("summary", "", "Write the run summary as JSON to this file")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg := config.Load(envFiles...)

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "force":
			cfg.Force = *force
		case "root":
			cfg.ContentRoot = *root
		case "out":
			cfg.OutputDir = *out
		case "data":
			cfg.DataDir = *data
		case "workers":
			if *workers > 0 {
				cfg.Workers = *workers
			}
		case "catalog":
			cfg.CatalogPath = *catalog
		}
	})

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	summary, err := application.Run(ctx)
	stop()
	if err != nil {
		application.Logger().Error("Content processing failed: %v", err)
		application.Close()
		os.Exit(1)
	}

	if *summaryPath != "" {
		payload, err := json.MarshalIndent(summary, "", "  ")
		if err == nil {
			err = storage.WriteFileAtomic(*summaryPath, append(payload, '\n'), 0644)
		}
		if err != nil {
			application.Logger().Warning("Failed to write summary %s: %v", *summaryPath, err)
		}
	}

	if err := application.Close(); err != nil {
		log.Printf("Failed to close: %v", err)
	}
}
