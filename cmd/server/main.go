package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/sujalbistaa/messmate/internal/cache"
	"github.com/sujalbistaa/messmate/internal/db"
	routes "github.com/sujalbistaa/messmate/internal/http"
	"github.com/sujalbistaa/messmate/internal/imagehost"
	"github.com/sujalbistaa/messmate/internal/models"
	"github.com/sujalbistaa/messmate/internal/store"
	"github.com/sujalbistaa/messmate/internal/ws"
	"github.com/sujalbistaa/messmate/pkg/logger"
)

func main() {
	// Load .env first. Not finding one is fine; production sets env directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 1. Database
	database, err := db.Init()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := database.AutoMigrate(&models.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations complete.")

	// 2. Post store and expiry reaper
	postStore := store.New(database)
	reaper := store.NewReaper(postStore, reapInterval())
	stopReaper := reaper.Start()

	// 3. Image host. Misconfiguration here must stop the process, not
	// surface per-request.
	images, err := imagehost.FromEnv()
	if err != nil {
		log.Fatalf("Failed to configure image host: %v", err)
	}
	uploadsDir := ""
	if local, ok := images.(*imagehost.Local); ok {
		uploadsDir = local.Dir()
	}

	// 4. Optional redis cache for the hotel-name list
	var hotels routes.HotelLister = postStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		hotels = cache.NewHotelCache(postStore, rdb, 0)
		log.Println("Hotel list cache enabled via", addr)
	}

	// 5. Live feed hub
	hub := ws.NewHub()
	go hub.Run()

	// 6. Router
	router := gin.New()
	env := &routes.Env{Store: postStore, Hotels: hotels, Images: images, Hub: hub}
	routes.SetupRoutes(router, env, uploadsDir)

	// 7. Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := stopReaper(ctx); err != nil {
		log.Printf("Reaper did not stop cleanly: %v", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

func reapInterval() time.Duration {
	raw := os.Getenv("REAP_INTERVAL")
	if raw == "" {
		return store.DefaultReapInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid REAP_INTERVAL %q, using default: %v", raw, err)
		return store.DefaultReapInterval
	}
	return d
}
