package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	adapterHTTP "github.com/Julian1612/trackerApp/internal/adapters/handler/http"
	"github.com/Julian1612/trackerApp/internal/adapters/cache"
	"github.com/Julian1612/trackerApp/internal/adapters/repository"
	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/Julian1612/trackerApp/internal/core/services"
	"github.com/Julian1612/trackerApp/internal/core/workers"
	"github.com/Julian1612/trackerApp/internal/notification"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	startTime := time.Now()

	// .env is optional in production.
	_ = godotenv.Load()

	serverPort := getEnvOrDefault("PORT", "8080")

	var (
		db         *sqlx.DB
		habitStore domain.HabitStore
		logStore   domain.ActivityLogStore
		stateStore domain.StateStore
	)

	if os.Getenv("DB_NAME") != "" {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			getEnvOrDefault("DB_HOST", "localhost"),
			getEnvOrDefault("DB_PORT", "5432"),
			os.Getenv("DB_NAME"))

		log.Println("Connecting to database...")

		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connected successfully.")

		habitStore = repository.NewPostgresHabitStore(db)
		logStore = repository.NewPostgresActivityLogStore(db)
		stateStore = repository.NewPostgresStateStore(db)
	} else {
		log.Println("DB_NAME not set, running with in-memory stores.")
		habitStore = repository.NewMemoryHabitStore()
		logStore = repository.NewMemoryActivityLogStore()
		stateStore = repository.NewMemoryStateStore()
	}

	var redisClient *redis.Client
	if os.Getenv("REDIS_HOST") != "" {
		var err error
		redisClient, err = cache.NewRedisClient(
			os.Getenv("REDIS_HOST"),
			getEnvOrDefault("REDIS_PORT", "6379"),
			os.Getenv("REDIS_PASSWORD"),
			0,
		)
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			redisClient = nil
		} else {
			habitStore = repository.NewCachedHabitStore(habitStore, redisClient)
			log.Println("Redis cache enabled.")
		}
	}

	scheduler := notification.NewScheduler(notification.NewMemoryTransport())
	engine := services.NewScoreEngine(domain.HeatmapWindow)

	habitService := services.NewHabitService(scheduler, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := habitService.SetStore(ctx, habitStore, logStore); err != nil {
		log.Fatalf("Critical: Failed to load habits: %v", err)
	}

	watcher := workers.NewDayWatcher(stateStore, habitService, time.Second)

	// The first check runs synchronously so an after-midnight launch
	// never serves yesterday's completions in today's cell.
	if err := watcher.Check(ctx); err != nil {
		log.Printf("Initial day check failed, will retry in background: %v", err)
	}
	watcher.Start(ctx)

	habitHandler := adapterHTTP.NewHabitHandler(habitService)
	dashboardHandler := adapterHTTP.NewDashboardHandler(habitService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:     habitHandler,
		DashboardHandler: dashboardHandler,
		DB:               db,
		Redis:            redisClient,
		StartTime:        startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Tracker engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
