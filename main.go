package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"contactbook/internal/auth"
	"contactbook/internal/config"
	"contactbook/internal/handlers"
	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
	"contactbook/pkg/mailer"
	"contactbook/pkg/rabbitmq"
	"contactbook/pkg/storage"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Contact{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	// --- Object storage for avatars ---
	// The server still runs without it; avatar uploads then fail with 500.
	var avatarStorage storage.ObjectStorage
	if s3Storage, err := storage.NewS3Storage(context.Background(), cfg.AvatarBucket, cfg.AWSRegion); err != nil {
		log.Printf("Warning: object storage unavailable, avatar uploads disabled: %v", err)
	} else {
		avatarStorage = s3Storage
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	// --- Services ---
	creds := auth.NewCredentials(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, creds, mqClient, cfg.BaseURL)
	userService := services.NewUserService(userRepo, avatarStorage)
	contactService := services.NewContactService(contactRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	contactHandler := handlers.NewContactHandler(contactService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(creds, userRepo)

	authHandler.RegisterRoutes(api, authRequired)

	protected := api.Group("", authRequired)
	userHandler.RegisterRoutes(protected)
	contactHandler.RegisterRoutes(protected)

	// Liveness probe against the database.
	api.Get("/healthchecker", func(c *fiber.Ctx) error {
		var one int
		if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil || one != 1 {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Error connecting to the database",
			})
		}
		return c.JSON(fiber.Map{"message": "Welcome to the contact book API"})
	})

	// --- Email consumer ---
	// Drains the email queue and hands each task to the SMTP mailer.
	// Failures never affect the requests that queued the tasks.
	mail := mailer.New(mailer.Config{
		Host:     cfg.MailHost,
		Port:     cfg.MailPort,
		From:     cfg.MailFrom,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
	})
	if err := mqClient.ConsumeEmailTasks(mail.Send); err != nil {
		log.Printf("Failed to start email consumer: %v", err)
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
