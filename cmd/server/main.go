package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/leafkeeper/leafkeeper/internal/cache"
	"github.com/leafkeeper/leafkeeper/internal/clients"
	"github.com/leafkeeper/leafkeeper/internal/config"
	"github.com/leafkeeper/leafkeeper/internal/database"
	"github.com/leafkeeper/leafkeeper/internal/handlers"
	"github.com/leafkeeper/leafkeeper/internal/logging"
	"github.com/leafkeeper/leafkeeper/internal/middleware"
	"github.com/leafkeeper/leafkeeper/internal/services"
	"github.com/leafkeeper/leafkeeper/internal/storage"
	"github.com/leafkeeper/leafkeeper/internal/types"
	"github.com/leafkeeper/leafkeeper/internal/utils"
)

// @title LeafKeeper API
// @version 1.0.0
// @description Plant care tracking service: plants, reminders, photos, care guidance and IoT sensors

// @contact.name API Support
// @contact.url https://github.com/leafkeeper/leafkeeper

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logging.NewDefault()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// File storage backend
	var files storage.FileStore
	switch cfg.StorageBackend {
	case "s3":
		files, err = storage.NewS3Store(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		files, err = storage.NewLocalStore(cfg.UploadsDir)
	}
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Initialize Authorizer
	if err := services.InitAuthorizer(cfg, "http", "localhost:"+cfg.Port); err != nil {
		log.Fatalf("Failed to initialize authorizer: %v", err)
	}

	// External collaborators
	genText := clients.NewGenTextClient(cfg.GenTextURL, cfg.GenTextKey)
	identifier := clients.NewPlantIDClient(cfg.PlantIDURL, cfg.PlantIDKey)
	telemetry := clients.NewTelemetryClient(cfg.TelemetryURL)

	// Services
	plantSvc := services.NewPlantService(db, files, appLog)
	reminderSvc := services.NewReminderService(db)
	photoSvc := services.NewPhotoService(db, files, appLog)
	careSvc := services.NewCareService(db, genText, cache.NewMemory(), appLog)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	careSvc.StartCacheJanitor(janitorCtx, 24*time.Hour)
	deviceSvc := services.NewDeviceService(db, telemetry, appLog)
	accountSvc := services.NewAccountService(db, files, appLog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    32 << 20,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("leafkeeper")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Liveness probe stays outside the authenticated group
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db}
	app.Get("/healthz", healthHandler.Liveness)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.AuthUser())

	api.Get("/health", healthHandler.Health)

	plantHandler := &handlers.PlantHandler{Plants: plantSvc}
	reminderHandler := &handlers.ReminderHandler{Reminders: reminderSvc}
	photoHandler := &handlers.PhotoHandler{Photos: photoSvc}
	careHandler := &handlers.CareHandler{Care: careSvc}
	identifyHandler := &handlers.IdentifyHandler{Identifier: identifier}
	deviceHandler := &handlers.DeviceHandler{Devices: deviceSvc}
	accountHandler := &handlers.AccountHandler{Account: accountSvc}

	// Plant records
	api.Get("/plants", plantHandler.ListPlants)
	api.Post("/plants", plantHandler.CreatePlant)
	api.Get("/plants/:plantId", plantHandler.GetPlant)
	api.Put("/plants/:plantId", plantHandler.UpdatePlant)
	api.Delete("/plants/:plantId", plantHandler.DeletePlant)

	// Reminders
	api.Get("/plants/:plantId/reminders", reminderHandler.ListReminders)
	api.Post("/plants/:plantId/reminders", reminderHandler.CreateReminder)
	api.Patch("/reminders/:reminderId", reminderHandler.CompleteReminder)
	api.Delete("/reminders/:reminderId", reminderHandler.DeleteReminder)

	// Photos
	api.Get("/plants/:plantId/photos", photoHandler.ListPhotos)
	api.Post("/plants/:plantId/photos", photoHandler.AddPhotos)
	api.Post("/plants/:plantId/photos/:photoId/promote", photoHandler.PromotePhoto)
	api.Delete("/plants/:plantId/photos/:photoId", photoHandler.DeletePhoto)

	// Care guidance and identification
	api.Get("/care", careHandler.GetCare)
	api.Post("/identify", identifyHandler.Identify)

	// IoT devices
	api.Get("/devices", deviceHandler.ListDevices)
	api.Post("/devices", deviceHandler.RegisterDevice)
	api.Delete("/devices/:deviceId", deviceHandler.DeactivateDevice)
	api.Get("/devices/:deviceId/reading", deviceHandler.DeviceReading)

	// Account data
	api.Get("/account/export", accountHandler.ExportAccount)
	api.Delete("/account", accountHandler.EraseAccount)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler translates service and fiber errors into the standard
// error envelope.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "internal"

	var svcErr *types.ServiceError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &svcErr):
		code = utils.StatusForKind(svcErr.Kind)
		message = svcErr.Message
		errorType = string(svcErr.Kind)
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
		errorType = "http"
	}

	return utils.ErrorResponse(c, message, code, errorType)
}
