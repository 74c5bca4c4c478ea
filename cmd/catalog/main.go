package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"contentpipeline/internal/config"
	"contentpipeline/internal/model"
	"contentpipeline/internal/repository/sqlite"
	"contentpipeline/internal/services/manifest"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.CatalogPath, "Catalog database path (default CATALOG_DB)")
	runs := flag.Int("runs", 0, "List the N most recent runs")
	failures := flag.Bool("failures", false, "List failed images of the latest run")
	manifestPath := flag.String("manifest", "", "Inspect a projects manifest instead of the catalog")
	category := flag.String("category", "", "With -manifest: only projects of this category")
	slug := flag.String("slug", "", "With -manifest: show a single project")
	flag.Parse()

	if *manifestPath != "" {
		if err := inspectManifest(*manifestPath, *category, *slug); err != nil {
			log.Fatalf("Failed to inspect manifest: %v", err)
		}
		return
	}

	if *dbPath == "" {
		log.Fatalf("No catalog configured: set CATALOG_DB or pass -db")
	}
	if _, err := os.Stat(*dbPath); err != nil {
		log.Fatalf("Catalog %s not found: %v", *dbPath, err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	runRepo := sqlite.NewRunRepository(db)
	assetRepo := sqlite.NewAssetRepository(db)

	if *runs <= 0 && !*failures {
		*runs = 5
	}

	if *runs > 0 {
		list, err := runRepo.List(*runs)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		fmt.Printf("📊 Last %d run(s):\n", len(list))
		for _, run := range list {
			printRun(run)
		}
	}

	if *failures {
		latest, err := runRepo.Latest()
		if err != nil {
			log.Fatalf("Failed to load latest run: %v", err)
		}
		if latest == nil {
			fmt.Println("No runs recorded yet")
			return
		}
		failed, err := assetRepo.GetFailures(latest.ID)
		if err != nil {
			log.Fatalf("Failed to load failures: %v", err)
		}
		if len(failed) == 0 {
			fmt.Printf("✅ No failed images in run %s\n", latest.ID)
			return
		}
		fmt.Printf("⚠️  %d failed image(s) in run %s:\n", len(failed), latest.ID)
		for _, asset := range failed {
			fmt.Printf("   - [%s] %s: %s\n", asset.Project, asset.SourcePath, asset.Error)
		}
	}
}

func printRun(run model.Run) {
	status := "interrupted"
	if run.FinishedAt != nil {
		status = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
	}
	forced := ""
	if run.Forced {
		forced = " (forced)"
	}
	fmt.Printf("   %s  %s%s  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"), run.ID, forced, status)
	fmt.Printf("      projects: %d (dropped %d)  encoded: %d  cached: %d  failed: %d\n",
		run.Projects, run.Dropped, run.Encoded, run.Cached, run.Failed)
}

func inspectManifest(path, category, slug string) error {
	records, err := manifest.Load(path)
	if err != nil {
		return err
	}

	if slug != "" {
		record, ok := manifest.FindBySlug(records, slug)
		if !ok {
			return fmt.Errorf("project %q not found", slug)
		}
		fmt.Printf("📁 %s (%s, %d)\n", record.Title, record.Category, record.Year)
		if record.Location != "" {
			fmt.Printf("   Location: %s\n", record.Location)
		}
		if record.Description != "" {
			fmt.Printf("   %s\n", record.Description)
		}
		for _, img := range record.Images {
			fmt.Printf("   - %s  %dx%d  %s\n", img.Src.JPEG, img.Width, img.Height, img.Alt)
		}
		return nil
	}

	if category != "" {
		records = manifest.FilterByCategory(records, model.Category(category))
	}
	fmt.Printf("📝 %d project(s) in %s\n", len(records), path)
	for _, record := range records {
		fmt.Printf("   %-30s %-12s %4d  %d image(s)\n", record.Slug, record.Category, record.Year, len(record.Images))
	}
	return nil
}
