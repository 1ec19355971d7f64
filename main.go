package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"bikebuilders/app"
	"bikebuilders/backup"
	"bikebuilders/config"
	"bikebuilders/database"
	"bikebuilders/drive"
	"bikebuilders/handlers"
	"bikebuilders/middleware"
	"bikebuilders/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/oauth2"
)

func main() {
	cfg := config.Load()

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	// Initialize SQLite database
	db, err := database.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database initialized", "path", cfg.DBPath)

	repo := database.NewRepository(db)

	// Sync state lives next to the database so both survive together
	state, err := sync.NewStateFile(filepath.Join(cfg.DataDir, "sync_state.json"))
	if err != nil {
		logger.Error("failed to load sync state", "error", err)
		os.Exit(1)
	}

	creds := drive.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}
	newRemote := func(ctx context.Context, token *oauth2.Token) (sync.RemoteStore, error) {
		return drive.NewClient(ctx, creds, token)
	}

	orch := sync.NewOrchestrator(repo, state, newRemote, logger)
	localBackup := backup.NewService(repo, filepath.Join(cfg.DataDir, "exports"), logger)

	a := app.New(repo, orch, localBackup, logger)

	srv := fiber.New(fiber.Config{
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 30,
		DisableStartupMessage: cfg.Env == "production",
		ErrorHandler:          customErrorHandler(logger),
		ReadBufferSize:        8192,
	})

	srv.Use(
		recover.New(),
		middleware.StructuredLogger(logger),
		cors.New(cors.Config{
			AllowOrigins:     config.GetEnv("CORS_ORIGINS", "*"),
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
			AllowCredentials: false,
			MaxAge:           86400,
		}),
		limiter.New(limiter.Config{
			Max:        200,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Rate limit exceeded",
				})
			},
		}),
	)

	srv.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := srv.Group("/api")

	api.Post("/vehicles", handlers.RegisterVehicle(a))
	api.Get("/vehicles/search", handlers.SearchVehicles(a))
	api.Get("/vehicles/reminders", handlers.GetReminders(a))
	api.Get("/vehicles/:reg", handlers.GetVehicle(a))
	api.Get("/vehicles/:reg/services", handlers.GetServiceHistory(a))

	api.Post("/services", handlers.StartService(a))
	api.Get("/services", handlers.GetInProgressServices(a))
	api.Put("/services/:id/payment", handlers.RecordPayment(a))
	api.Put("/services/:id/complete", handlers.CompleteService(a))
	api.Post("/services/:id/parts", handlers.AddServicePart(a))
	api.Get("/services/:id/parts", handlers.GetServiceParts(a))

	api.Get("/catalog", handlers.GetCommonServices(a))
	api.Post("/catalog", handlers.CreateCommonService(a))
	api.Put("/catalog/:id", handlers.UpdateCommonService(a))
	api.Delete("/catalog/:id", handlers.DeleteCommonService(a))

	api.Get("/profile", handlers.GetUserInfo(a))
	api.Put("/profile", handlers.UpdateUserInfo(a))

	api.Post("/backup/export", handlers.ExportBackup(a))
	api.Post("/backup/import", handlers.ImportBackup(a))

	api.Post("/sync/signin", handlers.SignIn(a))
	api.Post("/sync/signout", handlers.SignOut(a))
	api.Get("/sync/status", handlers.SyncStatus(a))
	api.Post("/sync/upload", handlers.UploadBackupNow(a))
	api.Post("/sync/download", handlers.DownloadBackupNow(a))
	api.Put("/sync/auto", handlers.SetAutoSync(a))

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	go func() {
		if err := srv.Listen(":" + cfg.Port); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(),
		AddSource: cfg.Env == "development",
	}

	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func getLogLevel() slog.Level {
	level := config.GetEnv("LOG_LEVEL", "info")
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func customErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		requestID := ""
		if id, ok := c.Locals("requestID").(string); ok {
			requestID = id
		}

		logger.Error("request failed",
			"request_id", requestID,
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"error", err,
		)

		return c.Status(code).JSON(fiber.Map{
			"error":      message,
			"request_id": requestID,
		})
	}
}
