package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"brainer-platform/config"
	"brainer-platform/handlers"
	"brainer-platform/middleware"
	"brainer-platform/services"
	"brainer-platform/storage"
	"brainer-platform/utils"
	"brainer-platform/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(cfg.Database)
	if err != nil {
		log.Fatal("failed to open storage:", err)
	}
	defer repo.Close()

	if cfg.Database.SeedDemo {
		if err := storage.SeedDemoData(ctx, repo); err != nil {
			log.Fatal("failed to seed demo data:", err)
		}
	}

	catalog, err := storage.LoadCatalog()
	if err != nil {
		log.Fatal("failed to load catalog:", err)
	}

	var uploads services.LogoStore = utils.DataURLStore{}
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Store(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		uploads = r2
	} else {
		log.Println("⚠️  R2 not configured, images are stored inline as data URLs")
	}

	payments, err := services.NewPaymentSimulator(cfg.Payments.Delay)
	if err != nil {
		log.Fatal("failed to start payment simulator:", err)
	}
	defer payments.Shutdown()

	sweeper, err := workers.StartCheckoutSweeper(payments, cfg.Payments.SweepInterval, cfg.Payments.Retention)
	if err != nil {
		log.Fatal("failed to start checkout sweeper:", err)
	}
	defer sweeper.Shutdown()

	notifications := services.NewNotificationHub(0)
	ledger := services.NewLedger(repo)
	gamification := services.NewGamificationService(repo)

	deps := &handlers.Deps{
		Repo:          repo,
		Catalog:       catalog,
		Accounts:      services.NewAccountService(repo, uploads),
		Registrations: services.NewRegistrationService(repo, catalog, ledger, gamification, payments, notifications),
		Schools:       services.NewSchoolService(repo, ledger, notifications, uploads),
		Leaderboard:   services.NewLeaderboardService(repo),
		Coach:         services.NewCoachService(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model),
		Notifications: notifications,
		PollInterval:  cfg.Payments.NotifyInterval,
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Server.BodyLimit,
	})

	app.Use(middleware.GatewayAuthMiddleware(cfg.Server.APIToken, "/health"))

	allowedOrigins := strings.Join(cfg.Server.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, Cache-Control",
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
		MaxAge:        86400, // 24 hours
	}))

	handlers.SetupRoutes(app, deps)

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%d", cfg.Server.Port)
	log.Printf("✅ Payment simulator settling after %s", cfg.Payments.Delay)
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

func openRepository(cfg config.DatabaseConfig) (storage.Repository, error) {
	if cfg.URL == "" {
		log.Println("⚠️  DATABASE_URL not set, state is kept in memory for this session")
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.NewPostgresStore(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Println("✅ Connected to Postgres")
	return store, nil
}
