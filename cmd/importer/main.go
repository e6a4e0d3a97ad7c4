package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"nutrifit/fitness-app/internal/config"
	"nutrifit/fitness-app/internal/repository/mongo"
	"nutrifit/fitness-app/internal/service"
	"nutrifit/fitness-app/internal/storage"
	"nutrifit/fitness-app/internal/upstream"
)

// The importer runs as a standalone batch job (cron or manual), sweeping the
// full muscle-group taxonomy against the upstream provider and upserting into
// the catalog collection. Per-group failures are reported, not fatal: the
// process exits 0 even on a partially failed sweep.
func main() {
	log.Println("Starting exercise catalog import...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// Indexes first: the unique natural-key index is what keeps a racing
	// sweep from inserting duplicate rows.
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 1*time.Minute)
	if err := mongo.EnsureExerciseIndexes(indexCtx, appDB.Collection("exercises")); err != nil {
		indexCancel()
		log.Fatalf("FATAL: Failed to create exercise indexes: %v", err)
	}
	indexCancel()

	var media storage.FileStorage
	if cfg.Media.Enabled {
		media, err = storage.NewS3Storage(cfg.Media)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize media storage: %v", err)
		}
	}

	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	upstreamClient := upstream.NewClient(cfg.Upstream)
	importer := service.NewImportService(exerciseRepo, upstreamClient, media, cfg.Import.Delay)

	// SIGINT/SIGTERM stops the sweep between groups via context cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := importer.ImportAll(ctx)
	if err != nil && report == nil {
		log.Fatalf("FATAL: Import failed to start: %v", err)
	}
	if err != nil {
		log.Printf("WARN: Import stopped early: %v", err)
	}

	log.Printf("Import run %s finished in %s", report.RunID, report.Duration.Round(time.Millisecond))
	failed := 0
	for _, group := range report.Groups {
		if group.Err != "" {
			failed++
			log.Printf("  %-22s FAILED: %s", group.Group, group.Err)
			continue
		}
		log.Printf("  %-22s inserted=%d updated=%d total=%d", group.Group, group.Inserted, group.Updated, group.Total)
	}
	log.Printf("Totals: inserted=%d updated=%d groups=%d failed=%d",
		report.TotalInserted, report.TotalUpdated, len(report.Groups), failed)
}
