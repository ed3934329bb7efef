package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lexiguard-backend/handlers"
	"lexiguard-backend/models"
	"lexiguard-backend/services"
	"lexiguard-backend/store"
	"lexiguard-backend/utils"
	"lexiguard-backend/workers"

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
		BodyLimit: 100 * 1024 * 1024, // 100MB, bounded by the recording upload cap
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, Stripe-Signature",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if webhookSecret == "" {
		log.Fatal("STRIPE_WEBHOOK_SECRET environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Guide{},
		&models.Script{},
		&models.Incident{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	st := store.NewGormStore(db)
	billing := services.NewStripeBilling()

	userService := services.NewUserService(st)
	contentService := services.NewContentService(st)
	incidentService := services.NewIncidentService(st)
	subscriptionService := services.NewSubscriptionService(st, st, st, billing)
	reconciler := services.NewReconciler(st, st, billing, webhookSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditor := workers.NewConsistencyAuditor(st)
	go workers.PollConsistency(ctx, auditor, 10*time.Minute)

	subscriptionService.StartGraceAudit()

	handlers.SetupUserRoutes(app, userService)
	handlers.SetupContentRoutes(app, contentService)
	handlers.SetupIncidentRoutes(app, incidentService)
	handlers.SetupSubscriptionRoutes(app, subscriptionService)
	handlers.SetupWebhookRoutes(app, reconciler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Consistency audit running (every 10m)")
	log.Println("✅ Grace-period audit scheduled (daily)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
