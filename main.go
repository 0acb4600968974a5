package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kondate-app/menu-helper/internal/config"
	"github.com/kondate-app/menu-helper/internal/database"
	"github.com/kondate-app/menu-helper/internal/logger"
	"github.com/kondate-app/menu-helper/internal/repository"
	"github.com/kondate-app/menu-helper/internal/server"
	"github.com/kondate-app/menu-helper/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Menu Helper...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Redis, when configured, closes the quota race window with an atomic
	// increment; without it the document store keeps the original
	// read-then-write semantics.
	var quota services.QuotaService
	if cfg.Redis.Host != "" {
		redisQuota, err := services.NewRedisQuotaService(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		quota = redisQuota
		log.Println("Quota tracking backed by Redis")
	} else {
		quota = services.NewDBQuotaService(userRepo)
		log.Println("Quota tracking backed by the database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	aiService, err := services.NewAIService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create AI service: %v", err)
	}

	menuService := services.NewMenuService(userRepo, quota, aiService, cfg.Quota.DailyLimit, cfg.Quota.ReportingOffset)
	userService := services.NewUserService(userRepo)
	historyService := services.NewHistoryService(historyRepo)
	log.Println("Services initialized successfully")

	handler := server.NewHandler(menuService, userService, historyService)
	srv := server.New(cfg.Server.Port, []byte(cfg.Server.JWTSecret), handler)

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
	log.Println("Server stopped")
}
