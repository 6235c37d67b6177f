package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"katalog/internal/config"
	"katalog/internal/database"
	"katalog/internal/handlers"
	"katalog/internal/metrics"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"
)

// appDeps are the collaborators newApp wires into the HTTP layer.
type appDeps struct {
	cfg         *config.Config
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	publisher   services.EventPublisher
	registry    *prometheus.Registry
	accessLog   bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Storage ---
	driver, dsn := cfg.DBDriver, cfg.DatabaseDSN
	if driver == "memory" {
		// products live in a map; users still need a SQL table
		driver, dsn = "sqlite", "file:katalog-users?mode=memory&cache=shared"
	}
	db, err := database.Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	var productRepo repositories.ProductRepository
	if cfg.DBDriver == "memory" {
		productRepo = repositories.NewInMemoryProductRepository()
	} else {
		productRepo = repositories.NewGORMProductRepository(db)
	}

	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		productRepo = repositories.NewCachedProductRepository(productRepo, redisClient, "", cfg.Redis.CacheTTL)
		log.Printf("Product cache enabled at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
	}

	// --- Events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeProductEvents(logProductEvent); err != nil {
			log.Printf("Failed to start product event consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL is not set. Product events will not be published.")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(registry)

	app := newApp(appDeps{
		cfg:         cfg,
		productRepo: productRepo,
		userRepo:    repositories.NewGORMUserRepository(db),
		publisher:   publisher,
		registry:    registry,
		accessLog:   true,
	})

	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp builds the fiber application: health and metrics endpoints, public
// auth routes, and the token-protected product API under /api/v1.
func newApp(deps appDeps) *fiber.App {
	productService := services.NewProductService(deps.productRepo, deps.publisher)
	authService := services.NewAuthService(deps.userRepo, deps.cfg.JWTSecret, deps.cfg.TokenTTL)

	app := fiber.New(fiber.Config{AppName: "katalog"})
	if deps.accessLog {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"events":   deps.publisher != nil,
			"cache":    deps.cfg.Redis.Enabled(),
			"database": deps.cfg.DBDriver,
		})
	})
	if deps.registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))
	}

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(productService, deps.cfg.DefaultPageSize).RegisterRoutes(protected)

	return app
}

// logProductEvent writes every product event the broker delivers to the log.
func logProductEvent(msg amqp.Delivery) error {
	log.Printf("Received product event %s (tag %d): %s", msg.RoutingKey, msg.DeliveryTag, string(msg.Body))
	return nil
}
