package api

import (
	"fmt"
	"log"
	"net/http"

	"tourly/internal/cache"
	"tourly/internal/config"
	"tourly/internal/database"
	"tourly/internal/external"
	"tourly/internal/handlers"
	"tourly/internal/messaging"
	"tourly/internal/middleware"
	"tourly/internal/repository"
	"tourly/internal/scheduler"
	"tourly/internal/search"
	"tourly/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the composition root: storage, external adapters and the
// lifecycle services behind the HTTP surface.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		log.Printf("Valkey unavailable, identity lookups fall back to database: %v", err)
		valkeyClient = nil
	}

	tourIndex, err := search.NewTourIndex(cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	paymentClient := external.NewPaymentClient(cfg.Payment)
	notificationClient := external.NewNotificationClient(cfg.Notification)

	repos := repository.NewRepositories(db)

	services := service.NewServices(service.Deps{
		Reservations: repos.Reservations,
		Bookings:     repos.Bookings,
		Inventory:    repos.Inventory,
		Users:        repos.Users,
		Catalog:      tourIndex,
		Gateway:      paymentClient,
		Notifier:     notificationClient,
		Scheduler:    scheduler.NewNATSScheduler(natsClient),
		Publisher:    natsClient,
		HoldDuration: cfg.HoldDuration,
		ExpirySkew:   cfg.ExpirySkew,
	})

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")

	// Reservation lifecycle, authenticated
	reservations := api.Group("/reservations")
	reservations.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("/:reserveId", h.GetReservation)
		reservations.POST("/:reserveId/book", h.BookReservation)
	}

	// Scheduler callback; carries only the reserve id, no user identity
	api.POST("/scheduler/release", h.ReleaseReservation)

	// Gateway webhook, gated by the HMAC signature check
	payments := api.Group("/payments")
	payments.Use(middleware.WebhookSignature(s.config.Payment.WebhookSecret))
	{
		payments.POST("/webhook", h.OnGatewayEvent)
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "tourly-api",
		"database": dbHealth,
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
