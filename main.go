package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/cafe-fausse/config"
	"github.com/yeremiapane/cafe-fausse/database"
	"github.com/yeremiapane/cafe-fausse/middlewares"
	"github.com/yeremiapane/cafe-fausse/router"
	"github.com/yeremiapane/cafe-fausse/services"
	"github.com/yeremiapane/cafe-fausse/utils"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLoggerWithLevel(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	repo := database.NewReservationRepo(db)
	booking := services.NewBookingService(repo, cfg.Booking, services.NewTimeSeededRandom())
	newsletter := services.NewNewsletterService(repo)

	var limiter middlewares.Limiter = middlewares.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	if rdb := config.NewRedisClient(cfg.RedisAddr); rdb != nil {
		defer rdb.Close()
		limiter = middlewares.NewRedisRateLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, "cafe-fausse:rl")
		utils.InfoLogger.Printf("Rate limiting through Redis at %s", cfg.RedisAddr)
	} else if cfg.RedisAddr != "" {
		utils.InfoLogger.Warnf("Redis at %s unreachable, using in-process rate limiting", cfg.RedisAddr)
	}

	r := router.SetupRouter(router.Dependencies{
		Booking:      booking,
		Newsletter:   newsletter,
		CORSOrigins:  cfg.CORSOrigins,
		WriteLimiter: limiter,
	})

	utils.InfoLogger.Printf("Listening on port %s (tables=%d, seats per table=%d)", cfg.Port, cfg.Booking.TableCount, cfg.Booking.SeatsPerTable)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
