package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laptopshop/internal/ai"
	"laptopshop/internal/config"
	"laptopshop/internal/database"
	"laptopshop/internal/handlers"
	"laptopshop/internal/mailer"
	"laptopshop/internal/media"
	"laptopshop/internal/ratelimit"
	"laptopshop/internal/repositories"
	"laptopshop/internal/routes"
	"laptopshop/internal/services"
	"laptopshop/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.EnsureSuperAdmin(db, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		log.Fatalf("Failed to seed superadmin: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Notifications ---
	var sender mailer.Sender = mailer.LogMailer{}
	if cfg.SMTPEnabled() {
		sender = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		log.Println("SMTP_HOST not set, order e-mails are only logged")
	}
	notifier := services.NewOrderNotifier(sender, cfg.AdminEmail, cfg.AppName)

	var publisher services.OrderEventPublisher = services.NewInProcessPublisher(notifier)
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit

		publisher = services.NewMQPublisher(mqClient)
		if err := mqClient.ConsumeOrderEvents(services.DecodeOrderEvent(notifier)); err != nil {
			log.Fatalf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events are dispatched in-process")
	}

	// --- Optional collaborators ---
	var generator ai.Generator
	if cfg.GeminiAPIKey != "" {
		generator = ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	}

	var presigner handlers.ImagePresigner
	if cfg.S3Enabled() {
		imageStore, err := media.NewStore(ctx, media.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
		presigner = imageStore
	}

	// --- Repositories and services ---
	store := repositories.NewStore(db)

	authService := services.NewAuthService(store.Users, services.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		MaxAttempts:  cfg.LoginMaxAttempts,
		LockDuration: cfg.LoginLockDuration,
	})
	productService := services.NewProductService(store.Products, store.Categories, store.Brands)
	catalogService := services.NewCatalogService(store.Categories, store.Brands)
	orderService := services.NewOrderService(store, publisher, cfg.VIPThreshold)
	customerService := services.NewCustomerService(store.Customers)
	warrantyService := services.NewWarrantyService(store.Orders, store.Products)
	reviewService := services.NewReviewService(store.Reviews, store.Products)
	postService := services.NewPostService(store.Posts)
	softwareService := services.NewSoftwareService(store.Software)
	aiService := services.NewAIService(generator, productService)

	// --- Fiber app ---
	limiterStorage := ratelimit.NewStorage(db)
	limiterStorage.StartGC(ctx, time.Minute)

	app := routes.NewApp(cfg.AppName, true)
	routes.Register(app, authService, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cfg.CookieSecure),
		User:     handlers.NewUserHandler(authService),
		Product:  handlers.NewProductHandler(productService),
		Catalog:  handlers.NewCatalogHandler(catalogService),
		Order:    handlers.NewOrderHandler(orderService),
		Customer: handlers.NewCustomerHandler(customerService),
		Warranty: handlers.NewWarrantyHandler(warrantyService),
		Review:   handlers.NewReviewHandler(reviewService),
		Post:     handlers.NewPostHandler(postService),
		Software: handlers.NewSoftwareHandler(softwareService),
		AI:       handlers.NewAIHandler(aiService),
		Media:    handlers.NewMediaHandler(presigner),
	}, routes.RateLimit{
		Storage: limiterStorage,
		Max:     cfg.RateLimitMax,
		Window:  cfg.RateLimitWindow,
	})

	// --- Start HTTP Server ---
	log.Printf("Starting %s on port %s", cfg.AppName, cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")
	stop()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}
