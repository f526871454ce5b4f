package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fefebeatz/moungshop/internal/cache"
	"github.com/fefebeatz/moungshop/internal/catalog"
	"github.com/fefebeatz/moungshop/internal/checkout"
	"github.com/fefebeatz/moungshop/internal/fulfillment"
	h "github.com/fefebeatz/moungshop/internal/http"
	"github.com/fefebeatz/moungshop/internal/payments"
	"github.com/fefebeatz/moungshop/internal/publisher"
	"github.com/fefebeatz/moungshop/internal/repository"
)

type Config struct {
	HTTPPort         string
	BaseURL          string
	Currency         string
	StripeAPIKey     string
	WebhookSecret    string
	MongoURI         string
	MongoDBName      string
	MongoMaxPoolSize uint64
	RedisAddr        string
	RedisPassword    string
	KafkaBrokers     string
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration
}

func loadConfig() *Config {
	// The success/cancel redirect base differs between production and
	// local development.
	baseURL := getEnv("DEV_BASE_URL", "http://localhost:3000")
	if getEnv("APP_ENV", "development") == "production" {
		baseURL = getEnv("BASE_URL", baseURL)
	}

	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		BaseURL:          baseURL,
		Currency:         getEnv("CURRENCY", "XAF"),
		StripeAPIKey:     getEnv("STRIPE_API_KEY", ""),
		WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:      getEnv("MONGO_DB_NAME", "storedb"),
		MongoMaxPoolSize: getEnvUint("MONGO_MAX_POOL_SIZE", 0),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Printf("invalid %s value %q, using default", key, value)
		return defaultValue
	}
	return parsed
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	if cfg.StripeAPIKey == "" {
		log.Fatal("STRIPE_API_KEY is required")
	}
	if cfg.WebhookSecret == "" {
		// The webhook handler rejects every delivery without the secret;
		// start anyway so checkout keeps working, but make it loud.
		log.Println("WARNING: STRIPE_WEBHOOK_SECRET is not set, webhook deliveries will be rejected")
	}

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, repository.MongoConfig{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDBName,
		MaxPoolSize: cfg.MongoMaxPoolSize,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	productRepo := repository.NewMongoProductRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)
	if err := orderRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create order indexes: %v", err)
	}

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

	productCache := cache.NewRedisCache(redisClient)
	catalogService := catalog.NewService(productRepo, productCache)

	// Payment provider clients are constructed once and injected, with a
	// process-wide lifecycle bound to startup.
	gateway := payments.NewStripeGateway(cfg.StripeAPIKey)
	verifier := payments.NewStripeVerifier(cfg.WebhookSecret)

	orderEvents := publisher.NewOrderEventPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
	defer orderEvents.Close()

	checkoutService := checkout.NewService(catalogService, gateway, checkout.Config{
		BaseURL:  cfg.BaseURL,
		Currency: cfg.Currency,
	})
	recorder := fulfillment.NewRecorder(gateway, catalogService, orderRepo, orderEvents)

	checkoutHandler := h.NewCheckoutHandler(checkoutService)
	webhookHandler := h.NewWebhookHandler(verifier, recorder, cfg.WebhookSecret != "")
	productHandler := h.NewProductHandler(catalogService)
	ordersHandler := h.NewOrdersHandler(orderRepo)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MetricsMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Provider callback; raw body, outside the API group.
	r.Post("/webhook", webhookHandler.HandleEvent)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", checkoutHandler.CreateSession)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{product_id}", productHandler.Get)
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.ListOrders)
			r.Get("/{order_number}", ordersHandler.GetOrder)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront backend starting on :%s", cfg.HTTPPort)
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
