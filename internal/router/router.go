package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/civilconnect/marketplace/backend/internal/handlers"
	"github.com/civilconnect/marketplace/backend/internal/middleware"
	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/civilconnect/marketplace/backend/internal/repositories"
	"github.com/civilconnect/marketplace/backend/internal/services"
	"github.com/civilconnect/marketplace/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.ProfessionalProfile{},
		&models.WorkerProfile{},
		&models.Connection{},
		&models.Notification{},
		&models.Rating{},
		&models.LandListing{},
		&models.PasswordResetCode{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	connectionRepo := repositories.NewPostgresConnectionRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	ratingRepo := repositories.NewPostgresRatingRepository(pgdb)
	landRepo := repositories.NewPostgresLandRepository(pgdb)
	resetCodeRepo := repositories.NewPostgresResetCodeRepository(pgdb)
	chatRepo := repositories.NewMongoChatRepository(mgClient.Database("civilconnect"))

	// --- Initialize Services ---
	mailer := services.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	sms := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	notifier := services.NewNotifier(notificationRepo, mailer, sms)
	hub := services.NewWSHub()
	chatService := services.NewChatService(chatRepo, connectionRepo, userRepo, notifier, hub)

	storage, err := services.NewStorageService(context.Background(), cfg.AWSRegion, cfg.S3BucketName)
	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}

	// --- Standalone email relay (unauthenticated) ---
	mailerHandler := handlers.NewMailerHandler(mailer)
	mailerHandler.RegisterMailerRoutes(e)
	log.Println("Email relay routes configured.")

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, resetCodeRepo, firebaseAuthClient, mailer, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Live message feed ---
	wsHandler := handlers.NewWSHandler(hub, cfg.JWTSecret)
	e.GET("/ws", wsHandler.HandleWebSocket)
	log.Println("WebSocket route configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, ratingRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Connection routes
	connectionHandler := handlers.NewConnectionHandler(connectionRepo, userRepo, notifier)
	connectionHandler.RegisterConnectionRoutes(api)
	log.Println("Connection routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Chat routes
	chatHandler := handlers.NewChatHandler(chatService, storage)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	// Rating routes
	ratingHandler := handlers.NewRatingHandler(ratingRepo, connectionRepo, userRepo)
	ratingHandler.RegisterRatingRoutes(api)
	log.Println("Rating routes configured.")

	// Land listing routes
	landHandler := handlers.NewLandHandler(landRepo, userRepo)
	landHandler.RegisterLandRoutes(api)
	log.Println("Land listing routes configured.")

	// Admin routes
	adminGroup := api.Group("", middleware.AdminOnly())
	adminHandler := handlers.NewAdminHandler(userRepo)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
