package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-ledger/internal/app"
	"go-pos-ledger/internal/config"
	applogger "go-pos-ledger/internal/logger"
	"go-pos-ledger/internal/jobs"
	"go-pos-ledger/internal/middleware"
	"go-pos-ledger/internal/repository"
	"go-pos-ledger/internal/ws"
	"go-pos-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applogger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	appLog := applogger.WithComponent("main")

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseOptions())
	if err := repository.Migrate(db); err != nil {
		appLog.Fatal().Err(err).Msg("failed to migrate snapshot table")
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	services, err := app.Build(repository.NewSnapshotRepo(db), cfg, wsHub)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to load stores")
	}

	// 5. Optional seed data (only fills empty stores)
	if cfg.SeedFile != "" {
		result, err := services.Seed.LoadFile(cfg.SeedFile, middleware.DefaultOperator)
		if err != nil {
			appLog.Error().Err(err).Str("file", cfg.SeedFile).Msg("seed failed")
		} else {
			appLog.Info().
				Int("suppliers", result.Suppliers).
				Int("inventory", result.Inventory).
				Int("clients", result.Clients).
				Strs("skipped", result.Skipped).
				Msg("seed data loaded")
		}
	}

	// 6. Background jobs
	janitor := jobs.NewStagingJanitor(services.Staging, cfg.StagingCleanupSchedule, cfg.DraftTTL)
	if err := janitor.Start(); err != nil {
		appLog.Fatal().Err(err).Msg("failed to start staging janitor")
	}

	// 7. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName: "POS Ledger v1.0",
	})

	// Middleware
	server.Use(logger.New())  // Logging request
	server.Use(recover.New()) // Panic recovery
	server.Use(cors.New())    // CORS

	// 8. Routes
	api := server.Group("/api/v1", middleware.Operator())
	services.Handlers().Register(api)

	// WebSocket Route
	server.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	server.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Join(c)
		defer wsHub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info().Msg("Shutting down server...")
	janitor.Stop()
	if err := server.Shutdown(); err != nil {
		appLog.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	wsHub.Stop()

	appLog.Info().Msg("Server exited")
}
