// Command reindex walks the document bucket and pushes every stored PDF
// through the ingestion pipeline again. Identity derivation is deterministic
// and the index upserts, so re-running it is always safe — typical uses are
// recovering from lost notifications and populating a fresh data store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"spashta/legal-docs/internal/config"
	"spashta/legal-docs/internal/domain"
	"spashta/legal-docs/internal/scoping"
	"spashta/legal-docs/internal/search"
	"spashta/legal-docs/internal/service"
	"spashta/legal-docs/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	prefix := flag.String("prefix", "", "only reindex objects under this key prefix")
	dryRun := flag.Bool("dry-run", false, "list what would be reindexed without touching the index")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	ctx := context.Background()

	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	searchService, err := search.NewDiscoveryService(ctx, cfg.Search)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize search service: %v", err)
	}

	mode := scoping.ModeGlobal
	if cfg.Scoping.Mode == config.ModeTenant {
		mode = scoping.ModeTenant
	}
	strategy := scoping.NewStrategy(mode, cfg.Scoping.FallbackTenant)

	// No dedup filter here: reindexing deliberately reprocesses everything.
	ingestService := service.NewIngestService(searchService, strategy, nil)

	keys, err := fileStorage.ListObjectKeys(ctx, *prefix)
	if err != nil {
		log.Fatalf("FATAL: Failed to list bucket: %v", err)
	}
	log.Printf("Found %d objects under prefix %q", len(keys), *prefix)

	var indexed, skipped, failed int
	for _, key := range keys {
		if !strings.HasSuffix(strings.ToLower(key), ".pdf") {
			skipped++
			continue
		}
		if *dryRun {
			log.Printf("DRY-RUN: would reindex %s", key)
			indexed++
			continue
		}

		event := domain.StorageEvent{Bucket: fileStorage.BucketName(), ObjectName: key}
		if err := ingestService.HandleObjectCreated(ctx, event); err != nil {
			log.Printf("ERROR: Failed to reindex %s: %v", key, err)
			failed++
			continue
		}
		indexed++
	}

	log.Printf("Reindex complete: %d indexed, %d skipped, %d failed", indexed, skipped, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
