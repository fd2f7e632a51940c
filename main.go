package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"movie-booking/internal/config"
	"movie-booking/internal/handlers"
	"movie-booking/internal/kafka"
	"movie-booking/internal/logger"
	"movie-booking/internal/middleware"
	"movie-booking/internal/models"
	"movie-booking/internal/posters"
	rediswrap "movie-booking/internal/redis"
	"movie-booking/internal/services"
	"movie-booking/internal/storage"

	"github.com/gin-gonic/gin"
)

// Global logger instance
var log *logger.Logger

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	var err error
	log, err = logger.NewLogger(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if envErr != nil {
		log.Warn("ENV", "No .env file loaded, using environment variables")
	}

	log.LogProcess("STARTUP", "Movie booking backend starting up...")
	log.Info("CONFIG", fmt.Sprintf("Configuration loaded (env=%s, payment=%s, chat=%s)",
		cfg.Env, cfg.Payment.Mode, cfg.Chat.Mode))
	if cfg.IsProduction() && cfg.Payment.WebhookSecret == "" {
		log.Warn("CONFIG", "STRIPE_WEBHOOK_SECRET not set, /api/pay is the only way to settle bookings")
	}

	created, err := posters.EnsurePlaceholders(cfg.Posters.Dir)
	if err != nil {
		log.Fatal("POSTERS", "Failed to prepare posters: "+err.Error())
	}
	if len(created) > 0 {
		log.LogProcess("POSTERS", fmt.Sprintf("Generated placeholder posters: %v", created))
	}

	store := storage.NewInMemoryStore()
	log.LogProcess("STORAGE", "In-memory booking store initialized")

	log.LogProcess("KAFKA", "Initializing Kafka producer...")
	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, !cfg.Kafka.Enabled, log)
	if err != nil {
		log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
	}
	defer kafkaProducer.Close()

	bookingService := services.NewBookingService(store, models.DefaultMovies(), models.DefaultSnacks(), kafkaProducer, log)
	log.LogProcess("SERVICE", "Booking service initialized")

	var (
		paymentProvider services.PaymentProvider
		stripeService   *services.StripeService
	)
	if cfg.Payment.Mode == config.ModeConfigured {
		stripeService, err = services.NewStripeService(cfg.Payment, log)
		if err != nil {
			log.Fatal("STRIPE", "Failed to initialize Stripe service: "+err.Error())
		}
		paymentProvider = stripeService
		log.LogProcess("STRIPE", "Stripe payment provider ready")
	} else {
		log.Warn("STRIPE", "STRIPE_SECRET_KEY not set, payment intents will fail")
	}
	paymentService := services.NewPaymentService(bookingService, paymentProvider, cfg.Payment, kafkaProducer, log)

	var replyCache services.ReplyCache
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache := rediswrap.NewReplyCache(redisClient, cfg.Chat.CacheTTL)
		defer cache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			log.Warn("REDIS", "Redis not reachable, chat replies will not be cached: "+err.Error())
		} else {
			replyCache = cache
			log.LogProcess("REDIS", "Chat reply cache connected")
		}
		cancel()
	}

	var assistant services.ChatAssistant
	if cfg.Chat.Mode == config.ModeConfigured {
		gemini, err := services.NewGeminiAssistant(context.Background(), cfg.Chat)
		if err != nil {
			log.Error("CHAT", "Failed to initialize Gemini, using local replies: "+err.Error())
		} else {
			defer gemini.Close()
			assistant = gemini
			log.LogProcess("CHAT", "Gemini assistant ready (model "+cfg.Chat.Model+")")
		}
	}
	chatService := services.NewChatService(cfg.Chat, assistant, replyCache, log)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if cfg.Kafka.Enabled {
		log.LogProcess("KAFKA", "Initializing payment confirmation consumer...")
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
		if err != nil {
			log.Fatal("KAFKA", "Failed to create Kafka consumer: "+err.Error())
		}
		defer consumer.Close()

		go func() {
			log.LogKafka("START", kafka.TopicPaymentConfirmations, "Starting confirmation consumer goroutine")
			if err := consumer.ConsumeConfirmations(consumerCtx, bookingService.HandlePaymentConfirmation); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("KAFKA", "Consumer error: "+err.Error())
			}
		}()
	}

	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	chatHandler := handlers.NewChatHandler(chatService)
	stripeHandler := handlers.NewStripeHandler(stripeService, bookingService)
	healthHandler := handlers.NewHealthHandler(paymentService.Mode(), chatService.Mode())
	log.LogProcess("HANDLER", "All handlers initialized")

	router := setupRouter(cfg, bookingHandler, paymentHandler, chatHandler, stripeHandler, healthHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on port "+cfg.Server.Port)
		log.Info("STARTUP", "Health check available at: http://localhost"+cfg.Server.Port+"/health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")
	stopConsumer()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("SHUTDOWN", "Server forced to shutdown: "+err.Error())
		return
	}

	log.Info("SHUTDOWN", "Movie booking backend shutdown completed")
}

func setupRouter(
	cfg *config.Config,
	bookingHandler *handlers.BookingHandler,
	paymentHandler *handlers.PaymentHandler,
	chatHandler *handlers.ChatHandler,
	stripeHandler *handlers.StripeHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.EnhancedLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.SecurityHeaders(log))
	router.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, log))

	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		api.GET("/movies", bookingHandler.ListMovies)
		api.GET("/snacks", bookingHandler.ListSnacks)
		api.POST("/book", bookingHandler.Book)
		api.POST("/pay", bookingHandler.MarkPaid)

		api.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
		api.POST("/chat", chatHandler.Chat)

		api.POST("/stripe/webhook", stripeHandler.HandleStripeWebhook)
	}

	router.Static("/posters", cfg.Posters.Dir)

	log.LogProcess("ROUTER", "All routes registered successfully")
	return router
}
