// cmd/api/main.go
// Main entry point for the recommendation service.
// This file bootstraps all components and starts the server.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sfuqua6/foodie/internal/auth"
	"github.com/sfuqua6/foodie/internal/common/database"
	"github.com/sfuqua6/foodie/internal/common/utils"
	"github.com/sfuqua6/foodie/internal/config"
	"github.com/sfuqua6/foodie/internal/feedback"
	"github.com/sfuqua6/foodie/internal/ratings"
	"github.com/sfuqua6/foodie/internal/recommendations"
	"github.com/sfuqua6/foodie/internal/restaurants"
	"github.com/sfuqua6/foodie/internal/similarity"
	"github.com/sfuqua6/foodie/internal/survey"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Foodie Recommendation API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL: ", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without cache", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Repositories
	log.Println("\n🗃️  Step 6: Initializing repositories...")
	surveyStore := survey.NewPostgresStore(db)
	ratingStore := ratings.NewPostgresStore(db)
	restaurantStore := restaurants.NewPostgresStore(db)
	feedbackStore := feedback.NewPostgresStore(db)
	similarityRepo := similarity.NewPostgresRepository(db)
	log.Println("✅ Repositories initialized")

	// 7. Similarity engine and scheduler
	log.Println("\n🧮 Step 7: Initializing similarity engine...")
	snapshotStore := similarity.NewSnapshotStore()
	similarityEngine := similarity.NewEngine(ratingStore, surveyStore, cfg)
	scheduler := similarity.NewScheduler(similarityEngine, snapshotStore, similarityRepo, cfg)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go scheduler.Start(schedulerCtx)
	log.Println("✅ Similarity scheduler started")

	// 8. Recommendation engine
	log.Println("\n🍽️  Step 8: Initializing recommendation engine...")
	cache := recommendations.NewCache(redisClient, cfg)
	aggregator := recommendations.NewAggregator(ratingStore, restaurantStore, snapshotStore, cfg, cache)
	engine := recommendations.NewEngine(surveyStore, ratingStore, restaurantStore, snapshotStore, aggregator, cfg, cache)
	log.Println("✅ Recommendation engine initialized")

	// 9. Services and handlers
	log.Println("\n🧩 Step 9: Initializing services and handlers...")
	surveyService := survey.NewService(surveyStore, previewAdapter{engine: engine})
	surveyHandler := survey.NewHandler(surveyService)

	recommendationHandler := recommendations.NewHandler(engine)
	similarityHandler := similarity.NewHandler(snapshotStore, scheduler, cfg)

	recorder := feedback.NewRecorder(feedbackStore)
	feedbackHandler := feedback.NewHandler(recorder)

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	log.Println("✅ Services initialized")

	// 10. Router
	log.Println("\n🌐 Step 10: Setting up routes...")
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	survey.RegisterRoutes(r, surveyHandler, authMiddleware)
	recommendations.RegisterRoutes(r, recommendationHandler, authMiddleware)
	similarity.RegisterRoutes(r, similarityHandler, authMiddleware)
	feedback.RegisterRoutes(r, feedbackHandler, authMiddleware)
	log.Println("✅ Routes registered")

	// 11. Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("\n🎧 Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server failed: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}
	log.Println("👋 Server stopped")
}

// previewAdapter exposes the recommendation engine to the survey module
// without a direct dependency between the two packages.
type previewAdapter struct {
	engine *recommendations.Engine
}

func (a previewAdapter) Preview(ctx context.Context, userID int64, limit int) ([]survey.RecommendationPreview, error) {
	resp, err := a.engine.Preview(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]survey.RecommendationPreview, 0, len(resp.Results))
	for _, res := range resp.Results {
		out = append(out, survey.RecommendationPreview{
			RestaurantID: res.RestaurantID,
			Name:         res.Name,
			Score:        res.Score,
			Reason:       res.Reason,
		})
	}
	return out, nil
}
