package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"doctrack/backend/internal/auth"
	"doctrack/backend/internal/config"
	"doctrack/backend/internal/database"
	"doctrack/backend/internal/documents"
	"doctrack/backend/internal/extract"
	"doctrack/backend/internal/handlers"
	"doctrack/backend/internal/middleware"
	"doctrack/backend/internal/services"
	"doctrack/backend/internal/session"
	"doctrack/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	ctx := context.Background()

	// Initialize Database
	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Sessions and rate-limit counters share Redis when it is configured.
	var rdb *redis.Client
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
		log.Println("Successfully connected to Redis!")
	} else {
		log.Println("REDIS_URL not set, sessions are kept in memory")
	}

	issuer, err := auth.NewIssuer(cfg.JWTKey, cfg.JWTTTL, sessions)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	docRepo := database.NewDocumentRepository(db)
	reminderRepo := database.NewReminderRepository(db)
	userRepo := database.NewUserRepository(db)
	tx := database.NewTransactor(client, cfg.MongoTransactions)

	extractor := extract.New(extract.NewTesseract(cfg.TesseractPath))
	pipeline := documents.NewPipeline(extractor, store, cfg.ExtractWorkers)

	docSvc := services.NewDocumentService(docRepo, reminderRepo, tx, pipeline, store)
	reminderSvc := services.NewReminderService(reminderRepo, docRepo)
	userSvc := services.NewUserService(userRepo)

	limiter, err := middleware.RateLimiter(cfg.RateLimit, rdb)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT: %v", err)
	}

	// Initialize Gin Router
	router := gin.Default()
	router.MaxMultipartMemory = 8 << 20
	router.Use(middleware.CORS(cfg.CORSOrigins))
	handlers.Register(router, handlers.Routes{
		Handler: handlers.New(docSvc, reminderSvc, userSvc, cfg.MaxUploadMB),
		Auth:    auth.NewHandler(userSvc, issuer),
		Issuer:  issuer,
		Users:   userSvc,
		Extra:   []gin.HandlerFunc{limiter},
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == config.StorageDrive {
		return storage.NewDrive(ctx, cfg.DriveCredentials, cfg.DriveFolderID)
	}
	log.Printf("Storing uploads under %s", cfg.UploadsDir)
	return storage.NewLocal(cfg.UploadsDir)
}
