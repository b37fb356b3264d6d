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

	"meditrack_backend/internal/cache"
	"meditrack_backend/internal/config"
	"meditrack_backend/internal/database"
	"meditrack_backend/internal/events"
	"meditrack_backend/internal/router"
	"meditrack_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		utils.LogError(err, "Failed to open database")
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		utils.LogError(err, "Failed to migrate database")
		log.Fatalf("Failed to migrate database: %v", err)
	}
	seeded, err := database.SeedPaymentMethods(context.Background(), db)
	if err != nil {
		utils.LogError(err, "Failed to seed payment methods")
		log.Fatalf("Failed to seed payment methods: %v", err)
	}
	utils.LogInfo("Database initialized", map[string]interface{}{"driver": cfg.DBDriver, "payment_methods_seeded": seeded})

	readCache := cache.New(cfg.CacheTTL)
	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			utils.LogWarn(err, "Failed to close event publisher")
		}
	}()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.RequestID())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db, cfg, readCache, publisher)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "kafka_enabled": len(cfg.KafkaBrokers) > 0})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
	utils.LogInfo("Server stopped")
}
