package main

import (
	"context"
	"log"
	"os"
	"strings"

	"hrseeker/resume-matcher/internal/config"
	"hrseeker/resume-matcher/internal/repositories"
	"hrseeker/resume-matcher/internal/services"
)

const batchSize = 50

func main() {
	log.Println("🚀 Starting candidate reindex...")

	cfg := config.Load()
	ctx := context.Background()
	if !cfg.TalentIndexEnabled() {
		log.Fatalln("❌ GEMINI_API_KEY and QDRANT_URL must both be set")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	uploadRepo := repositories.NewUploadRepository(db)

	embedder, err := services.NewGeminiEmbedder(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	indexer := services.NewTalentIndexer(uploadRepo, embedder, qdrantService)

	successCount := 0
	failCount := 0
	failed := map[string]bool{}

	for {
		pending, err := uploadRepo.FindUnindexed(ctx, batchSize+len(failed))
		if err != nil {
			log.Fatalf("❌ Failed to list unindexed uploads: %v", err)
		}

		progressed := false
		for _, upload := range pending {
			id := upload.ID.String()
			if failed[id] {
				continue
			}
			progressed = true

			log.Printf("📄 Indexing upload %s (%s)", id, upload.JobRole)
			if err := indexer.IndexUpload(ctx, upload.ID); err != nil {
				log.Printf("   ❌ Failed: %v", err)
				failed[id] = true
				failCount++
				continue
			}
			successCount++
		}

		if !progressed {
			break
		}
	}

	// Summary
	log.Println(strings.Repeat("=", 60))
	log.Printf("📊 Reindex Summary:")
	log.Printf("   ✅ Indexed: %d uploads", successCount)
	log.Printf("   ❌ Failed: %d uploads", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some uploads failed to index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All uploads indexed successfully!")
}
