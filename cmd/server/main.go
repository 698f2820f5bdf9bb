package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ElvisLo030/RA-bot/internal/config"
	"github.com/ElvisLo030/RA-bot/internal/discord"
	"github.com/ElvisLo030/RA-bot/internal/handler"
	"github.com/ElvisLo030/RA-bot/internal/middleware"
	"github.com/ElvisLo030/RA-bot/internal/service"
	"github.com/ElvisLo030/RA-bot/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Store
	st, err := store.Open(cfg.DataFile)
	if err != nil {
		log.Fatalf("Failed to open data store: %v", err)
	}
	log.Printf("Data store loaded from %s", cfg.DataFile)

	// Services
	gamerSvc := service.NewGamerService(st)
	catalogSvc := service.NewCatalogService(st)
	ledgerSvc := service.NewLedgerService(st)
	authSvc, err := service.NewAuthService(cfg.DashboardUser, cfg.DashboardPass, cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to set up dashboard auth: %v", err)
	}

	service.StartBackupScheduler(st, cfg.BackupDir)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(cors.New())

	// Health
	healthH := handler.NewHealthHandler()
	app.Get("/health", healthH.Health)

	// API v1
	v1 := app.Group("/api/v1")

	// Auth (public)
	authH := handler.NewAuthHandler(authSvc)
	v1.Post("/auth/login", middleware.RateLimit(10, time.Minute), authH.Login)

	// JWT-protected routes
	protected := v1.Group("", middleware.Auth(cfg.JWTSecret))

	// Dashboard
	dashboardH := handler.NewDashboardHandler(st)
	protected.Get("/dashboard", dashboardH.Stats)

	// Gamers
	gamerH := handler.NewGamerHandler(gamerSvc, ledgerSvc)
	gamers := protected.Group("/gamers")
	gamers.Get("/", gamerH.List)
	gamers.Get("/card/:number", gamerH.GetByCard)
	gamers.Get("/:id", gamerH.Get)
	gamers.Get("/:id/history", gamerH.History)
	gamers.Post("/:id/card", gamerH.BindCard)
	gamers.Delete("/:id/card", gamerH.ClearCard)
	gamers.Put("/:id/blocked", gamerH.SetBlocked)
	gamers.Post("/:id/points", gamerH.GrantPoints)

	// Events
	eventH := handler.NewEventHandler(catalogSvc, ledgerSvc)
	events := protected.Group("/events")
	events.Get("/", eventH.List)
	events.Post("/", eventH.Create)
	events.Get("/:code", eventH.Get)
	events.Patch("/:code", eventH.Update)
	events.Delete("/:code", eventH.Delete)
	events.Post("/:code/tasks", eventH.AddTask)
	events.Put("/:code/tasks/:taskID", eventH.EditTask)
	events.Delete("/:code/tasks/:taskID", eventH.DeleteTask)
	events.Post("/:code/prizes", eventH.AddPrize)
	events.Put("/:code/prizes/:prizeID", eventH.EditPrize)
	events.Delete("/:code/prizes/:prizeID", eventH.DeletePrize)
	events.Post("/:code/join", eventH.Join)
	events.Post("/:code/redeem", eventH.Redeem)

	// Submissions
	submissionH := handler.NewSubmissionHandler(ledgerSvc)
	protected.Post("/submissions", submissionH.Submit)
	protected.Post("/submissions/review", submissionH.Review)

	// Keyed admin surface for service-to-service callers without a
	// dashboard session
	admin := v1.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	admin.Post("/gamers/:id/points", gamerH.GrantPoints)
	admin.Put("/gamers/:id/blocked", gamerH.SetBlocked)
	admin.Post("/gamers/:id/card", gamerH.BindCard)
	admin.Delete("/gamers/:id/card", gamerH.ClearCard)
	admin.Post("/submissions/review", submissionH.Review)

	// Discord bot
	bot, err := discord.NewBot(cfg.DiscordToken, cfg.AdminChannelID, cfg.ReviewChannelID,
		gamerSvc, catalogSvc, ledgerSvc)
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to connect to Discord: %v", err)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("RA-bot backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	bot.Stop()
	log.Println("Server stopped")
}
