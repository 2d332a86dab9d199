package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/HanTheDev/recruit-api/internal/admin"
	"github.com/HanTheDev/recruit-api/internal/auth"
	"github.com/HanTheDev/recruit-api/internal/cache"
	"github.com/HanTheDev/recruit-api/internal/captcha"
	"github.com/HanTheDev/recruit-api/internal/config"
	"github.com/HanTheDev/recruit-api/internal/db"
	"github.com/HanTheDev/recruit-api/internal/email"
	"github.com/HanTheDev/recruit-api/internal/functions"
	"github.com/HanTheDev/recruit-api/internal/llm"
	"github.com/HanTheDev/recruit-api/internal/ratelimit"
	"github.com/HanTheDev/recruit-api/internal/security"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Initialize database
	database, err := db.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	var redisClient *redis.Client
	redisConn := func() *redis.Client {
		if redisClient == nil {
			opt, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				log.Fatal("Invalid REDIS_URL:", err)
			}
			redisClient = redis.NewClient(opt)
		}
		return redisClient
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	// Initialize rate limiters
	newStore := func() ratelimit.Store {
		if cfg.RateLimitBackend == "redis" {
			return ratelimit.NewRedisStoreFromClient(redisConn())
		}
		store := ratelimit.NewMemoryStore(time.Now)
		g.Go(func() error {
			return store.Run(gctx, cfg.RateLimitSweepInterval)
		})
		return store
	}
	limiters := functions.Limiters{
		API:       ratelimit.NewLimiter("api", newStore(), cfg.APILimit.MaxRequests, cfg.APILimit.Window),
		Auth:      ratelimit.NewLimiter("auth", newStore(), cfg.AuthLimit.MaxRequests, cfg.AuthLimit.Window),
		Interview: ratelimit.NewLimiter("interview", newStore(), cfg.InterviewLimit.MaxRequests, cfg.InterviewLimit.Window),
		Waitlist:  ratelimit.NewLimiter("waitlist", newStore(), cfg.WaitlistLimit.MaxRequests, cfg.WaitlistLimit.Window),
	}
	log.Printf("Rate limiting backend: %s", cfg.RateLimitBackend)

	// Initialize content generation
	var generator llm.Generator = llm.NewStaticGenerator()
	if cfg.GoogleCloudProject != "" {
		vertex, err := llm.NewVertexAIClient(ctx, cfg.GoogleCloudProject, cfg.GoogleCloudLocation, cfg.GoogleCredentials)
		if err != nil {
			log.Fatal("Failed to initialize Vertex AI:", err)
		}
		defer vertex.Close()

		cached := cache.NewResponseCache(vertex, redisConn(), cfg.GenerationCacheTTL)
		generator = llm.NewModelGenerator(cached)
		log.Printf("Content generation: Vertex AI (%s)", cfg.GoogleCloudProject)
	} else {
		log.Printf("Content generation: static examples")
	}

	var verifier captcha.Verifier = captcha.Disabled{}
	if cfg.RecaptchaSecret != "" {
		verifier = captcha.NewRecaptcha(cfg.RecaptchaSecret, cfg.RecaptchaMinScore)
	} else {
		log.Printf("RECAPTCHA_SECRET not set, CAPTCHA verification disabled")
	}

	var sender email.Sender
	if cfg.SMTP.Enabled() {
		sender = email.NewSMTPSender(cfg.SMTP)
	}

	handler := functions.NewHandler(functions.Options{
		Store:             database,
		Generator:         generator,
		Captcha:           verifier,
		Email:             sender,
		Validator:         security.NewValidator(cfg.TimestampTolerance),
		Limiters:          limiters,
		JWTSecret:         cfg.JWTSecret,
		Rooms:             auth.NewRoomTokenIssuer(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, time.Hour),
		RoomServerURL:     cfg.LiveKit.URL,
		InterviewTokenTTL: cfg.InterviewTokenTTL,
	})

	// Initialize router
	router := mux.NewRouter()
	router.Use(functions.LogRequests)

	router.HandleFunc("/health", healthHandler(database)).Methods("GET")

	handler.RegisterRoutes(router, auth.NewMiddleware(cfg.JWTSecret))

	adminHandler := admin.NewAdminHandler(database, cfg.AdminAPIKey)
	adminHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped with error: %v", err)
	}
}

func healthHandler(database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := database.Ping(r.Context()); err != nil {
			log.Printf("Health check: database unreachable: %v", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status":  status,
			"version": "1.0.0",
		})
	}
}
