package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	c "github.com/Courage4/market-trader-platform-sub001/internal/cache"
	"github.com/Courage4/market-trader-platform-sub001/internal/catalog"
	h "github.com/Courage4/market-trader-platform-sub001/internal/http"
	"github.com/Courage4/market-trader-platform-sub001/internal/poller"
	"github.com/Courage4/market-trader-platform-sub001/internal/rbac"
	"github.com/Courage4/market-trader-platform-sub001/internal/repository"
	s "github.com/Courage4/market-trader-platform-sub001/internal/service"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	CatalogDBPath   string
	MigrationsPath  string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "marketdb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "catalog.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Catalog: sqlite source, in-memory snapshot for the request path
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}

	products, err := catalogRepo.GetAllProducts(ctx)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	store := catalog.NewMemoryStore()
	store.Load(products)
	log.Printf("Loaded %d products from catalog at %s", len(products), cfg.CatalogDBPath)

	// Cart persistence
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	repo := repository.NewMongoRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	cache := c.NewRedisCache(redisClient)
	cartService := s.NewCartService(repo, cache, store)

	// Order events from the external checkout system empty carts
	if cfg.KafkaBrokers != "" {
		pollerCtx, pollerCancel := context.WithCancel(ctx)
		defer pollerCancel()

		p := poller.NewPoller(repo, cache, strings.Split(cfg.KafkaBrokers, ",")...)
		defer p.Close()
		go p.Run(pollerCtx)
		log.Printf("Order-events consumer started against %s", cfg.KafkaBrokers)
	}

	authHandler := h.NewAuthHandler()
	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	catalogHandler := h.NewCatalogHandler(store)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MockAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Get("/navigation", authHandler.Navigation)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{id}", catalogHandler.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.RequireRole(rbac.RoleBuyer))
			r.Get("/", cartHandler.GetCart)
			r.Get("/summary", cartHandler.Summary)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}/quantity", cartHandler.UpdateQuantity)
			r.Put("/items/{item_id}/selected", cartHandler.ToggleSelected)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
			r.Put("/selection", cartHandler.SelectAll)
			r.Post("/promo", cartHandler.ApplyPromo)
			r.Delete("/promo", cartHandler.RemovePromo)
			r.Put("/delivery", cartHandler.SetDelivery)
		})

		// Back-office surfaces; handlers live elsewhere, the gate is here
		r.Route("/vendor", func(r chi.Router) {
			r.Use(h.RequireRole(rbac.RoleVendor))
			r.Get("/products", catalogHandler.ListProducts)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireRole(rbac.RoleAdmin))
			r.Get("/products", catalogHandler.ListProducts)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "marketplace-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Marketplace API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
