package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hrseeker/resume-matcher/internal/config"
	"hrseeker/resume-matcher/internal/handlers"
	"hrseeker/resume-matcher/internal/repositories"
	"hrseeker/resume-matcher/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	uploadRepo := repositories.NewUploadRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	mlClient := services.NewMLClient(cfg.ML.BaseURL, cfg.ML.Timeout)
	tokens := services.NewTokenManager(cfg.Auth.JWTSecret)
	log.Println("✅ Services initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Talent index is optional
	talentIndex := services.NewDisabledTalentIndexer()
	var indexQueue services.IndexQueue
	var worker services.Worker

	if cfg.TalentIndexEnabled() {
		talentIndex, worker = initTalentIndex(ctx, cfg, uploadRepo)
		indexQueue = worker
	} else {
		log.Println("⚠️  GEMINI_API_KEY or QDRANT_URL not set, talent index disabled")
	}

	authService := services.NewAuthService(userRepo, tokens, talentIndex)
	matchingService := services.NewMatchingService(uploadRepo, storageService, pdfParser, mlClient, indexQueue)
	dashboardService := services.NewDashboardService(dashboardRepo, uploadRepo)

	if worker != nil {
		worker.Start(ctx)
	}

	// Initialize handlers
	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Match:     handlers.NewMatchHandler(matchingService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		Talent:    handlers.NewTalentHandler(talentIndex),
	}
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "HR Seeker Resume Matcher API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxBodySize),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	handlers.RegisterRoutes(app, h, tokens)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func initTalentIndex(ctx context.Context, cfg *config.Config, uploadRepo repositories.UploadRepository) (services.TalentIndexer, services.Worker) {
	embedder, err := services.NewGeminiEmbedder(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	indexer := services.NewTalentIndexer(uploadRepo, embedder, qdrantService)
	worker := services.NewWorker(
		uploadRepo,
		indexer,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	log.Println("✅ Index worker initialized successfully")

	return indexer, worker
}
