package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"moco-web/config"
	"moco-web/internal/auth"
	"moco-web/internal/backend"
	"moco-web/internal/database"
	"moco-web/internal/events"
	"moco-web/internal/gate"
	"moco-web/internal/handlers"
	"moco-web/internal/media"
	"moco-web/internal/middleware"
	"moco-web/internal/models"
	"moco-web/internal/repository"
	"moco-web/internal/scheduler"
	"moco-web/internal/versions"
)

// @title           Moco Web API
// @version         1.0
// @description     Web tier for Moco: Google sign-in, image uploads and the user gallery.

// @host      localhost:8090
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func init() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Configure zerolog based on config
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logLevel, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	output := os.Stdout
	if cfg.Logger.OutputPath != "" {
		file, err := os.OpenFile(cfg.Logger.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			output = file
		}
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
	})
}

func main() {
	cfg := config.Get()

	// Initialize session store first
	auth.InitializeSessionStore(cfg.Auth.SessionSecret)

	if err := database.Initialize(&cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize Goth providers (after session store is initialized)
	auth.Init(cfg)

	// Collaborators
	backendClient := backend.NewClient(&cfg.Backend)

	uploader, err := media.NewCloudinaryUploader(&cfg.Cloudinary)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media uploader")
	}

	userRepo := repository.NewUserRepository(database.GetDB())
	authService := auth.NewService(userRepo, backendClient, cfg)
	bus := events.NewBroadcaster()
	limitGate := gate.New(backendClient)

	versionService := versions.New()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := versionService.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial framework version refresh failed")
		}
	}()

	scheduler.Initialize(userRepo, versionService)
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Moco Web",
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error().Err(err).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Error handling request")

			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:8090,http://127.0.0.1:8090",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check routes
	app.Get("/health", healthCheck)
	app.Get("/ready", readinessCheck)

	// Pages and static assets
	app.Static("/static", "./web/static")
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile("./web/templates/index.html")
	})
	app.Get("/login", func(c *fiber.Ctx) error {
		return c.SendFile("./web/templates/login.html")
	})

	// Auth routes
	authHandler := handlers.NewAuthHandler(authService, cfg)
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/logout", middleware.Protected(authService), authHandler.Logout)
	app.Get("/auth/me", middleware.Protected(authService), authHandler.GetMe)

	// Social auth routes
	app.Get("/auth/:provider/login", authHandler.BeginAuth)
	app.Get("/auth/:provider/callback", authHandler.Callback)

	// Image pipeline routes
	uploadHandler := handlers.NewUploadHandler(uploader, backendClient, authService, bus)
	imagesHandler := handlers.NewImagesHandler(backendClient, authService, limitGate)
	eventsHandler := handlers.NewEventsHandler(bus)

	app.Post("/api/upload", uploadHandler.Upload)
	app.Get("/api/upload-status", imagesHandler.UploadStatus)
	app.Get("/api/image/check-upload-limit", imagesHandler.CheckUploadLimit)
	app.Get("/api/image/get-images-by-user", imagesHandler.ImagesByUser)
	app.Get("/api/events/images", eventsHandler.Stream)

	// Framework versions dashboard data
	versionsHandler := handlers.NewVersionsHandler(versionService)
	app.Get("/api/versions", versionsHandler.List)

	// Admin routes
	usersHandler := handlers.NewUsersHandler(userRepo)
	adminGroup := app.Group("/admin",
		middleware.Protected(authService),
		middleware.RequireAccess(models.AccessAdmin),
	)
	adminGroup.Get("/users", usersHandler.ListUsers)
	adminGroup.Put("/users/:id/status", usersHandler.UpdateUserStatus)

	// Start server in a goroutine
	serverAddr := cfg.Server.Host + ":" + cfg.Server.Port
	go func() {
		if err := app.Listen(serverAddr); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
}

// @Summary Health check endpoint
// @Description Get the health status of the service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func healthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// @Summary Readiness check endpoint
// @Description Get the readiness status of the service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ready [get]
func readinessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}
