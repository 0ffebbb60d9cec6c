package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dojo-learning-system/handlers"
	"dojo-learning-system/middleware"
	"dojo-learning-system/models"
	"dojo-learning-system/services"
	"dojo-learning-system/utils"
	"dojo-learning-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024, // headroom above the 10MB-per-file, 5-file submission ceiling
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Participation{},
		&models.Solution{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DojoEvent{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Object store for solution attachments — constructed once, injected.
	store, err := utils.NewR2Store(ctx, utils.R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		Bucket:          os.Getenv("R2_BUCKET_NAME"),
		CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
	})
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	userService := services.NewUserService(db)
	challengeService := services.NewChallengeService(db)
	participationService := services.NewParticipationService(db)
	badgeService := services.NewBadgeService(db)
	eventService := services.NewEventService(db)
	solutionService := services.NewSolutionService(db, store, utils.DefaultUploadLimits(), userService, badgeService)

	if err := badgeService.SeedBadges(); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}

	// --- Directory sync: mirrors SSO/profile users locally ---
	directoryURL := os.Getenv("DIRECTORY_SERVICE_URL")
	if directoryURL == "" {
		log.Fatal("DIRECTORY_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("DOJO_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("DOJO_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewUserSyncWorker(db, directoryURL, "/api/v1/public/profiles", serviceToken)
	syncWorker.Start(ctx)

	// --- Automatic solution evaluation (external evaluator service) ---
	evaluatorURL := os.Getenv("EVALUATOR_SERVICE_URL")
	if evaluatorURL == "" {
		log.Println("⚠️  EVALUATOR_SERVICE_URL not set — automatic evaluation disabled, mentors review everything")
	} else {
		evalClient := workers.NewEvaluationClient(db, evaluatorURL, serviceToken)
		go workers.PollPendingSolutions(ctx, evalClient, 1*time.Minute)
	}

	eventService.StartArchivalScheduler()
	services.StartReconciliationScheduler(userService, badgeService)

	// ✅ Setup routes — enforced Gateway auth globally
	handlers.SetupChallengeRoutes(app, challengeService, participationService, solutionService)
	handlers.SetupUserRoutes(app, userService, badgeService)
	handlers.SetupEventRoutes(app, eventService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Directory Sync Worker running")
	log.Println("✅ Event archival + nightly reconciliation scheduled")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
}
